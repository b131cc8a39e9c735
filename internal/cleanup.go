package internal

import (
	"github.com/gemward/gemward/internal/config"
	"github.com/gemward/gemward/internal/exceptions"
	"github.com/gemward/gemward/internal/lockfile"
	"github.com/gemward/gemward/internal/logger"
	"github.com/gemward/gemward/internal/middleware"
	"github.com/gemward/gemward/internal/policy"
	"github.com/gemward/gemward/internal/report"
	"github.com/gemward/gemward/internal/resolver"

	"github.com/spf13/cobra"
)

func NewCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "List policy exceptions that are no longer needed",
		Long: `Re-checks every configured exception against current release dates.
An exception is removable once the gem it waives would pass the age policy
on its own. Gems missing from the lockfile or with unresolvable release
dates are conservatively kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			lf, err := middleware.Get[*lockfile.Lockfile](cmd, middleware.CtxKeyLockfile)
			if err != nil {
				return err
			}

			reg := exceptions.New(cfg.Exceptions)
			if len(reg.Entries()) == 0 {
				logger.Success("No exceptions configured")
				return nil
			}

			logger.Info("Re-checking %d exceptions", len(reg.Entries()))
			result := reg.FindRemovable(cmd.Context(), lf.Gems, lf.Sources, policy.New(cfg), resolver.New(nil))
			report.PrintCleanup(result)

			return nil
		},
	}

	return cmd
}
