package internal

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gemward/gemward/internal/audit"
	"github.com/gemward/gemward/internal/config"
	"github.com/gemward/gemward/internal/engine"
	"github.com/gemward/gemward/internal/errs"
	"github.com/gemward/gemward/internal/exceptions"
	"github.com/gemward/gemward/internal/lockfile"
	"github.com/gemward/gemward/internal/logger"
	"github.com/gemward/gemward/internal/middleware"
	"github.com/gemward/gemward/internal/policy"
	"github.com/gemward/gemward/internal/report"
	"github.com/gemward/gemward/internal/resolver"

	"github.com/spf13/cobra"
)

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [days]",
		Short: "Verify every locked gem meets the minimum release age",
		Long: `Checks each gem in the lockfile against its source's minimum-age policy.
A gem released more recently than the cutoff is a violation unless a
configured exception waives it.

Examples:
    gemward check          # use per-source minimum ages from the config
    gemward check 30       # require 30 days of age for every source
    gemward check -w 4     # limit lookups to 4 parallel workers`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			lf, err := middleware.Get[*lockfile.Lockfile](cmd, middleware.CtxKeyLockfile)
			if err != nil {
				return err
			}

			overrideDays := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return middleware.UsageError(errs.InvalidDaysArg, args[0])
				}
				overrideDays = n
			}

			workers, err := cmd.Flags().GetInt("workers")
			if err != nil {
				return err
			}

			eng := engine.New(
				policy.New(cfg),
				exceptions.New(cfg.Exceptions),
				resolver.New(nil),
				cfg.MaxWorkers,
			)

			logger.Info("Checking %d gems against the age policy", len(lf.Gems))
			rep := eng.Run(cmd.Context(), lf.Gems, lf.Sources, overrideDays, workers)
			report.Print(rep)

			sink := audit.NewSink(cfg.AuditLogPath)
			if err := sink.Write(audit.FromReport(rep, time.Now())); err != nil {
				logger.Warn("Failed to write audit record: %v", err)
			}

			if !rep.Passed {
				return fmt.Errorf("%d gems violate the minimum age policy", len(rep.Violations))
			}
			return nil
		},
	}

	cmd.Flags().IntP("workers", "w", 0, "Parallel lookup workers (defaults to max_workers)")

	return cmd
}
