package middleware

import (
	"context"
	"fmt"

	"github.com/gemward/gemward/internal/lockfile"
	"github.com/spf13/cobra"
)

// RequireLockfile parses the lockfile named by the --lockfile flag and stores
// it in the command context. A missing lockfile aborts before any checking.
func RequireLockfile(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	path, err := cmd.Flags().GetString("lockfile")
	if err != nil {
		return err
	}

	lf, err := lockfile.Parse(path)
	if err != nil {
		return fmt.Errorf("missing lockfile: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), CtxKeyLockfile, lf)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
