package logger

import (
	"io"
	"os"
)

var (
	FlagVerbose bool // --verbose/-V
	FlagQuiet   bool // --quiet/-q
	FlagJSON    bool // --json (CI)
)

func ConfigureLoggerFromFlags() {
	var o io.Writer = os.Stdout
	level := "info"

	switch {
	case FlagQuiet:
		level = "error"
	case FlagVerbose:
		level = "debug"
	}

	Configure(Options{
		Level: level,
		JSON:  FlagJSON,
		Out:   o,
	})
}
