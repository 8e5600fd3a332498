package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/poortools/poor/internal/fetch"
)

var installCmd = &cobra.Command{
	Use:   "install <tool|all> [-- installer flags...]",
	Short: "Fetch a tool's installer from the server and run it",
	Long: `Install fetches the generated installer script for a tool (or "all"
for every cataloged tool) and runs it with sh.

Flags after -- go to the installer itself:

  poor install curl -- --dest ~/.local/bin --emulate`,
	Args: func(cmd *cobra.Command, args []string) error {
		dash := cmd.ArgsLenAtDash()
		if dash == -1 {
			dash = len(args)
		}
		if dash != 1 {
			return fmt.Errorf("%w: install expects one tool name (or \"all\")", errUsage)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		tool := args[0]
		installerArgs := args[1:]

		d, err := newDeps()
		if err != nil {
			return err
		}
		remote, err := d.newRemote()
		if err != nil {
			return err
		}

		endpoint := "install"
		if tool != "all" {
			endpoint = tool + "/install"
		}

		script, err := remote.Fetch(context.Background(), endpoint)
		if err != nil {
			return fmt.Errorf("fetching installer: %w", err)
		}

		return runInstaller(script, installerArgs)
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}

// runInstaller stages the installer script and runs it under sh,
// propagating its exit code.
func runInstaller(script []byte, args []string) error {
	f, err := os.CreateTemp("", "poor-installer-*.sh")
	if err != nil {
		return fmt.Errorf("staging installer: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(script); err != nil {
		f.Close()
		return fmt.Errorf("staging installer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("staging installer: %w", err)
	}

	cmd := exec.Command("sh", append([]string{f.Name()}, args...)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Remove(f.Name())
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("running installer: %w", err)
	}
	return nil
}

// fetchRemoteNames lists the server catalog, shared by list and pick.
func fetchRemoteNames(d *deps) ([]string, error) {
	remote, err := d.newRemote()
	if err != nil {
		return nil, err
	}
	names, err := remote.ListRemote(context.Background())
	if err != nil {
		var te *fetch.TransportError
		if errors.As(err, &te) {
			return nil, fmt.Errorf("listing %s: %w", te.Source, te.Err)
		}
		return nil, err
	}
	return names, nil
}
