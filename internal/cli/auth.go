package cli

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"Niyyah-Backend/internal/auth"
	"Niyyah-Backend/internal/client"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API token",
		Long:  `Manage authentication with the API server.`,
	}
	cmd.AddCommand(
		newAuthTokenCmd(a),
		newAuthLogoutCmd(a),
		newAuthHashCmd(a),
	)
	return cmd
}

func newAuthTokenCmd(a *app) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:     "token",
		Aliases: []string{"login"},
		Short:   "Exchange the server passphrase for a token",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.prefs.Load()
			if err != nil {
				return err
			}
			passphrase, err := a.readSecret("Passphrase: ")
			if err != nil {
				return err
			}

			token, expires, err := a.client(p, a.log).Token(cmd.Context(), passphrase, device)
			switch {
			case client.IsStatus(err, http.StatusUnauthorized):
				return errors.New("invalid passphrase")
			case client.IsStatus(err, http.StatusNotFound):
				return errors.New("the server does not require a token")
			case err != nil:
				return fmt.Errorf("failed to get token: %w", err)
			}

			if err := a.prefs.Update(func(p *Prefs) {
				p.Token = token
				p.TokenExpires = expires
			}); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Token saved, valid until %s\n", expires.Local().Format(time.RFC1123))
			return nil
		},
	}
	cmd.Flags().StringVar(&device, "device", "", "device name embedded in the token")
	return cmd
}

func newAuthLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.prefs.Update(func(p *Prefs) {
				p.Token = ""
				p.TokenExpires = time.Time{}
			}); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Logged out")
			return nil
		},
	}
}

func newAuthHashCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-passphrase",
		Short: "Print the bcrypt hash of a passphrase for the server config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			passphrase, err := a.readSecret("New passphrase: ")
			if err != nil {
				return err
			}
			hash, err := auth.NewPasswordService().HashPassphrase(passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, hash)
			return nil
		},
	}
}

// readSecret reads a line without echo when stdin is a terminal.
func (a *app) readSecret(prompt string) (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.stderr, prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return strings.TrimSpace(line), nil
}
