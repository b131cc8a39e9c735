package errs

import "fmt"

type Code string

const (
	InvalidDaysArg Code = "INVALID_DAYS_ARG"
)

var messages = map[Code]string{
	InvalidDaysArg: `Invalid days argument: %[1]q

Usage:
  - Check with the configured per-source minimum ages:
      gemward check
  - Override every source's minimum age for this run:
      gemward check 30

Reason:
  The days argument must be a positive integer; it replaces all
  source-level minimum ages for a single run.`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}
