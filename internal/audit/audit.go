// Package audit appends one structured record per verification run to the
// configured audit log.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gemward/gemward/internal/models"
	"github.com/gemward/gemward/internal/utils"
)

type ViolationRecord struct {
	Gem             string `json:"gem"`
	Version         string `json:"version"`
	ReleaseDate     string `json:"release_date"`
	AgeDays         int    `json:"age_days"`
	Excepted        bool   `json:"excepted"`
	ExceptionReason string `json:"exception_reason,omitempty"`
}

type Record struct {
	Timestamp       string            `json:"timestamp"`
	Result          string            `json:"result"`
	ViolationsCount int               `json:"violations_count"`
	CheckedGems     int               `json:"checked_gems_count"`
	ExceptionsUsed  int               `json:"exceptions_used"`
	Violations      []ViolationRecord `json:"violations"`
}

// FromReport flattens a verification report into the audit record shape.
func FromReport(rep *models.Report, now time.Time) Record {
	rec := Record{
		Timestamp:       now.Format(time.RFC3339),
		Result:          "pass",
		ViolationsCount: len(rep.Violations),
		CheckedGems:     rep.Checked,
		ExceptionsUsed:  len(rep.Excepted),
	}
	if !rep.Passed {
		rec.Result = "fail"
	}

	for _, v := range append(append([]models.Violation{}, rep.Violations...), rep.Excepted...) {
		rec.Violations = append(rec.Violations, ViolationRecord{
			Gem:             v.Gem,
			Version:         v.Version,
			ReleaseDate:     v.ReleaseDate.Format(time.RFC3339),
			AgeDays:         v.AgeDays,
			Excepted:        v.Excepted,
			ExceptionReason: v.ExceptionReason,
		})
	}

	return rec
}

// Sink appends JSON-lines records to a file. Callers treat write failures as
// warnings; a broken audit log never changes the run's outcome.
type Sink struct {
	path string
}

func NewSink(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Write(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log %s: %w", s.path, err)
	}
	defer utils.Close(f)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}
