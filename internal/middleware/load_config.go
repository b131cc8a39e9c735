package middleware

import (
	"context"

	"github.com/gemward/gemward/internal/config"
	"github.com/spf13/cobra"
)

// LoadConfig loads the policy configuration named by the --config flag into
// the command context. Loading never fails; a broken file yields defaults.
func LoadConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg := config.Load(path)

	ctx := context.WithValue(cmd.Context(), CtxKeyConfig, cfg)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
