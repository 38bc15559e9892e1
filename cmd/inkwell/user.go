package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/inkwell/internal/auth"
	"github.com/dmitrymomot/inkwell/internal/repository"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login users",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var (
		role     string
		password string
		github   string
	)
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user; the password is read from stdin unless --password is set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if role != repository.RoleAdmin && role != repository.RoleAuthor {
				return fmt.Errorf("unknown role %q, want %s or %s", role, repository.RoleAdmin, repository.RoleAuthor)
			}
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("empty password")
			}

			salt, err := auth.NewSalt()
			if err != nil {
				return err
			}
			u := repository.User{
				Username: args[0],
				Salt:     salt,
				Password: auth.HashPassword(password, salt),
				Role:     role,
			}
			if github != "" {
				u.GitHubLogin = &github
			}

			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			created, err := repository.New(e.pool).CreateUser(ctx, u)
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("user %q already exists", u.Username)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, %s)\n", created.Username, created.ID, created.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", repository.RoleAdmin, "Admin or Author")
	cmd.Flags().StringVar(&password, "password", "", "password; read from stdin when empty")
	cmd.Flags().StringVar(&github, "github", "", "GitHub login allowed to sign in as this user")
	return cmd
}
