package server

import "net/http"

// serverURL derives the serving origin (scheme+host[:port]) from the
// request, honoring the forwarding headers a reverse proxy sets so that
// generated download URLs point back at the public address.
func serverURL(r *http.Request) string {
	host := r.Host
	if host == "" {
		host = "localhost:7667"
	}

	scheme := "http"
	if r.TLS != nil ||
		r.Header.Get("X-Forwarded-Proto") == "https" ||
		r.Header.Get("X-Forwarded-Ssl") == "on" {
		scheme = "https"
	}

	return scheme + "://" + host
}
