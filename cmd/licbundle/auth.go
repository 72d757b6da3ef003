package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dsablic/licbundle/internal/auth"
	"github.com/dsablic/licbundle/internal/ui"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage access tokens for cloning git packages",
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token for a git host",
		RunE:  runAuthLogin,
	}
	loginCmd.Flags().String("host", "", "Git host the token is for, e.g. github.com")
	loginCmd.Flags().String("username", "", "Optional user name stored with the token")
	loginCmd.MarkFlagRequired("host")

	cmd.AddCommand(loginCmd)
	return cmd
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	host, _ := cmd.Flags().GetString("host")
	username, _ := cmd.Flags().GetString("username")

	var token string
	var err error
	if ui.IsTTY() {
		token, err = ui.PromptToken(host)
	} else {
		token, err = bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && token != "" {
			err = nil
		}
	}
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("empty token for %s", host)
	}

	store := auth.NewFileStore(auth.DefaultStorePath())
	if err := store.Save(host, auth.Credentials{AccessToken: token, Username: username}); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Saved token for %s.\n", host)
	return nil
}
