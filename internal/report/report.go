// Package report renders verification and cleanup results for humans.
package report

import (
	"fmt"

	"github.com/gemward/gemward/internal/exceptions"
	"github.com/gemward/gemward/internal/logger"
	"github.com/gemward/gemward/internal/models"
	"github.com/gemward/gemward/internal/printer"
	"github.com/gemward/gemward/internal/utils"
)

// Print renders the violation tables and the pass/fail summary.
func Print(rep *models.Report) {
	p := printer.NewColorPrinter()

	if len(rep.Violations) > 0 {
		logger.Info("Gems below the minimum age:")
		renderViolations(rep.Violations, p.Error)
	}

	if len(rep.Excepted) > 0 {
		logger.Info("Violations waived by exceptions:")
		renderExcepted(rep.Excepted, p.Warning)
	}

	switch {
	case !rep.Passed:
		logger.LogError("%d of %d checked gems violate the minimum age policy", len(rep.Violations), rep.Checked)
	case len(rep.Excepted) > 0:
		logger.Warn("%d violations waived by exceptions (%d gems checked)", len(rep.Excepted), rep.Checked)
	default:
		logger.Success("All %d checked gems meet the minimum age policy", rep.Checked)
	}
}

func renderViolations(vs []models.Violation, tint func(string, ...interface{}) string) {
	rows := utils.Map(vs, func(v models.Violation) []string {
		return []string{
			v.Gem,
			v.Version,
			v.ReleaseDate.Format("2006-01-02"),
			tint("%d days", v.AgeDays),
			fmt.Sprintf("%d days", v.RequiredDays),
			v.Source,
		}
	})
	renderTable([]string{"Gem", "Version", "Released", "Age", "Required", "Source"}, rows)
}

func renderExcepted(vs []models.Violation, tint func(string, ...interface{}) string) {
	rows := utils.Map(vs, func(v models.Violation) []string {
		return []string{
			v.Gem,
			v.Version,
			tint("%d days", v.AgeDays),
			fmt.Sprintf("%d days", v.RequiredDays),
			v.ExceptionReason,
		}
	})
	renderTable([]string{"Gem", "Version", "Age", "Required", "Reason"}, rows)
}

// PrintCleanup renders the exception-cleanup verdicts.
func PrintCleanup(res exceptions.CleanupResult) {
	if len(res.Removable) > 0 {
		logger.Info("Exceptions that can be removed:")
		renderOutcomes(res.Removable)
	}
	if len(res.Kept) > 0 {
		logger.Info("Exceptions still needed:")
		renderOutcomes(res.Kept)
	}

	if len(res.Removable) == 0 {
		logger.Success("No removable exceptions (%d kept)", len(res.Kept))
	} else {
		logger.Warn("%d exceptions can be removed, %d kept", len(res.Removable), len(res.Kept))
	}
}

func renderOutcomes(outs []exceptions.Outcome) {
	rows := utils.Map(outs, func(o exceptions.Outcome) []string {
		version := o.Entry.Version
		if version == "" {
			version = "all"
		}
		return []string{o.Entry.Gem, version, o.Entry.Reason, statusText(o)}
	})
	renderTable([]string{"Gem", "Version", "Reason", "Status"}, rows)
}

func statusText(o exceptions.Outcome) string {
	switch o.Status {
	case exceptions.Removable:
		return fmt.Sprintf("passes unaided (%d days old)", o.AgeDays)
	case exceptions.KeptTooYoung:
		return fmt.Sprintf("still too young (%d days old)", o.AgeDays)
	default:
		// Missing-from-lockfile and unresolvable look alike to the user; the
		// engine keeps them distinct internally.
		return "could not verify"
	}
}

func renderTable(headers []string, rows [][]string) {
	table := logger.CreateTable(headers)

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			logger.LogError("Error appending to table: %v", err)
			return
		}
	}

	if err := table.Render(); err != nil {
		logger.LogError("Error rendering table: %v", err)
	}
}
