// Package printer provides the sprintf-style color functions used for log
// prefixes and for tinting table cells.
package printer

import "github.com/fatih/color"

// ColorPrinter tints formatted text by severity. The functions honor NO_COLOR
// and non-tty output through fatih/color's global detection.
type ColorPrinter struct {
	Info    func(format string, a ...interface{}) string
	Success func(format string, a ...interface{}) string
	Warning func(format string, a ...interface{}) string
	Error   func(format string, a ...interface{}) string
	Debug   func(format string, a ...interface{}) string
}

func NewColorPrinter() *ColorPrinter {
	return &ColorPrinter{
		Info:    color.New(color.FgBlue).SprintfFunc(),
		Success: color.New(color.FgGreen).SprintfFunc(),
		Warning: color.New(color.FgYellow).SprintfFunc(),
		Error:   color.New(color.FgRed).SprintfFunc(),
		Debug:   color.New(color.FgCyan).SprintfFunc(),
	}
}
