package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// transport downloads a URL to stdout.
type transport interface {
	name() string
	fetch(ctx context.Context, url string) ([]byte, error)
}

type curlTransport struct{}

func (curlTransport) name() string { return "curl" }

func (curlTransport) fetch(ctx context.Context, url string) ([]byte, error) {
	return runDownloader(ctx, "curl", "-fsSL", url)
}

type wgetTransport struct{}

func (wgetTransport) name() string { return "wget" }

func (wgetTransport) fetch(ctx context.Context, url string) ([]byte, error) {
	return runDownloader(ctx, "wget", "-qO-", url)
}

func runDownloader(ctx context.Context, bin string, args ...string) ([]byte, error) {
	var out, errOut bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errOut.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %s", bin, msg)
		}
		return nil, fmt.Errorf("%s: %w", bin, err)
	}
	return out.Bytes(), nil
}

// detectTransport picks a downloader. An explicit name wins; otherwise
// curl is preferred over wget, matching the shell-side picker.
func detectTransport(forced string) (transport, error) {
	switch forced {
	case "curl":
		return curlTransport{}, nil
	case "wget":
		return wgetTransport{}, nil
	case "":
	default:
		return nil, fmt.Errorf("unsupported downloader %q (want curl or wget)", forced)
	}

	if _, err := exec.LookPath("curl"); err == nil {
		return curlTransport{}, nil
	}
	if _, err := exec.LookPath("wget"); err == nil {
		return wgetTransport{}, nil
	}
	return nil, fmt.Errorf("no downloader found: need curl or wget in PATH")
}

// RemoteSource fetches tools from a poor-tools server.
type RemoteSource struct {
	baseURL string
	tr      transport
}

// NewRemoteSource returns a Fetcher for the server at baseURL. downloader
// forces a specific transport ("curl" or "wget"); empty means autodetect.
func NewRemoteSource(baseURL, downloader string) (*RemoteSource, error) {
	tr, err := detectTransport(downloader)
	if err != nil {
		return nil, err
	}
	return &RemoteSource{baseURL: strings.TrimRight(baseURL, "/"), tr: tr}, nil
}

func (r *RemoteSource) Source(tool string) string {
	return r.baseURL + "/" + tool
}

func (r *RemoteSource) Fetch(ctx context.Context, tool string) ([]byte, error) {
	url := r.Source(tool)
	data, err := r.tr.fetch(ctx, url)
	if err != nil {
		return nil, &TransportError{Source: url, Err: err}
	}
	if len(data) == 0 {
		return nil, &TransportError{Source: url, Err: fmt.Errorf("empty response")}
	}
	return data, nil
}

// ListRemote fetches the newline-separated tool list from the server.
func (r *RemoteSource) ListRemote(ctx context.Context) ([]string, error) {
	url := r.baseURL + "/list"
	data, err := r.tr.fetch(ctx, url)
	if err != nil {
		return nil, &TransportError{Source: url, Err: err}
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}
