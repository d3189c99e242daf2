package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kerem/aide/internal/config"
	"github.com/kerem/aide/internal/permission"
)

// NewPermissionsCommand creates the permissions command group
func NewPermissionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Inspect and change what aide is allowed to do",
		Long: `Manage the permission store. Actions are grouped into categories
(terminal, files, browser, apps, input, screen); a category can be granted
or revoked as a whole, and single actions can be overridden.

Examples:
  aide permissions show
  aide permissions set terminal off
  aide permissions set browser_open on`,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: ~/.aide/config.yaml)")

	cmd.AddCommand(newPermissionsShowCommand())
	cmd.AddCommand(newPermissionsSetCommand())
	return cmd
}

func newPermissionsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current permission grants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			grants, err := store.Grants()
			if err != nil {
				return err
			}
			for _, g := range grants {
				state := "allowed"
				if !g.Allowed {
					state = "denied"
				}
				fmt.Printf("%-10s %-8s %s\n", g.Category, state, strings.Join(g.Actions, ", "))
			}
			return nil
		},
	}
}

func newPermissionsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category-or-action> <on|off>",
		Short: "Grant or revoke a category or a single action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			allowed, err := parseOnOff(args[1])
			if err != nil {
				return err
			}

			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			// Category names take precedence; anything else is treated
			// as a per-action override.
			if err := store.SetCategory(target, allowed); err == nil {
				fmt.Printf("category %s set to %s\n", target, args[1])
				return nil
			}
			if err := store.SetAction(target, allowed); err != nil {
				return err
			}
			fmt.Printf("action %s set to %s\n", target, args[1])
			return nil
		},
	}
}

func openStore(cmd *cobra.Command) (*permission.Store, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return permission.Open(cfg.PermissionDB)
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "allow", "allowed":
		return true, nil
	case "off", "false", "deny", "denied":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}
