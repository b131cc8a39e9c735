package models

import "time"

// GemRef identifies one lockfile entry: a gem name and the exact version the
// lockfile pins it to.
type GemRef struct {
	Name    string
	Version string
}

// Key is the identity used for caching and deduplication.
func (g GemRef) Key() string {
	return g.Name + "@" + g.Version
}

// Violation records a gem whose release date is newer than the cutoff of the
// source it came from. It is classified once (excepted or not) and never
// mutated afterward.
type Violation struct {
	Gem             string
	Version         string
	ReleaseDate     time.Time
	AgeDays         int
	Source          string
	RequiredDays    int
	Excepted        bool
	ExceptionReason string
}

// Report is the outcome of one verification run.
type Report struct {
	Violations []Violation // unexcepted, sorted by age ascending
	Excepted   []Violation // waived by exceptions, same ordering
	Checked    int
	Passed     bool
}
