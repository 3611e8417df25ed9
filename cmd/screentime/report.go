package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// PassphraseEnv supplies the report passphrase non-interactively.
const PassphraseEnv = "SCREENTIME_REPORT_PASSPHRASE"

// readPassphrase returns the passphrase from the environment or, on a
// terminal, prompts for it. confirm asks twice and requires a match.
func readPassphrase(confirm bool) (string, error) {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return p, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal to prompt for a passphrase (set %s)", PassphraseEnv)
	}

	prompt := func(label string) (string, error) {
		fmt.Fprint(os.Stderr, label)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return string(b), nil
	}

	p, err := prompt("Passphrase: ")
	if err != nil {
		return "", err
	}
	if confirm {
		again, err := prompt("Confirm passphrase: ")
		if err != nil {
			return "", err
		}
		if p != again {
			return "", errors.New("passphrases do not match")
		}
	}
	return p, nil
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Weekly usage reports",
}

var reportKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the report encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Keygen")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := readPassphrase(true)
		if err != nil {
			return err
		}
		recipient, err := a.Keygen(passphrase)
		if err != nil {
			return err
		}
		printer.Success("Report keys generated")
		if recipient != "" {
			printer.Print("Recipient: %s", recipient)
		}
		return nil
	},
}

var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Build this week's report and store it in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ExportReport")
		if err != nil {
			return err
		}
		defer a.Close()

		key, r, err := a.ExportReport(cmd.Context())
		if err != nil {
			return err
		}
		if err := printer.Report(r); err != nil {
			return err
		}
		printer.Success("Report stored at %s", key)
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show [KEY]",
	Short: "Decrypt and show a stored report (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ShowReport")
		if err != nil {
			return err
		}
		defer a.Close()

		key := ""
		if len(args) > 0 {
			key = args[0]
		}
		passphrase := ""
		if a.NeedsPassphrase() {
			if passphrase, err = readPassphrase(false); err != nil {
				return err
			}
		}
		r, err := a.ShowReport(cmd.Context(), key, passphrase)
		if err != nil {
			return err
		}
		return printer.Report(r)
	},
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListReports")
		if err != nil {
			return err
		}
		defer a.Close()

		keys, err := a.ListReports(cmd.Context())
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			printer.Print("No reports stored.")
			return nil
		}
		printer.Print("%s", strings.Join(keys, "\n"))
		return nil
	},
}

func init() {
	reportCmd.AddCommand(reportKeygenCmd)
	reportCmd.AddCommand(reportExportCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportListCmd)
}
