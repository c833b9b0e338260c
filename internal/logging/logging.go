package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type Logger struct {
	Verbose bool
	Debug   bool
	Out     io.Writer
	Err     io.Writer
}

// New returns a logger writing to stdout and stderr
func New(verbose, debug bool) Logger {
	return Logger{
		Verbose: verbose || debug,
		Debug:   debug,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose {
		fmt.Fprintf(l.out(), prefix(color.FgGreen, "[info] ")+msg+"\n", args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		fmt.Fprintf(l.out(), prefix(color.FgCyan, "[debug] ")+msg+"\n", args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	fmt.Fprintf(l.err(), prefix(color.FgYellow, "[warn] ")+msg+"\n", args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	fmt.Fprintf(l.err(), prefix(color.FgRed, "[error] ")+msg+"\n", args...)
}

func (l Logger) out() io.Writer {
	if l.Out == nil {
		return os.Stdout
	}
	return l.Out
}

func (l Logger) err() io.Writer {
	if l.Err == nil {
		return os.Stderr
	}
	return l.Err
}

func prefix(attr color.Attribute, s string) string {
	if NoColor() {
		return s
	}
	return color.New(attr).Sprint(s)
}

// NoColor reports whether colour output is disabled
func NoColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// Success formats a confirmation line
func Success(format string, args ...any) string {
	text := fmt.Sprintf(format, args...)
	if NoColor() {
		return "✓ " + text
	}
	return color.GreenString("✓ ") + text
}

// Highlight formats a user value such as an account name
func Highlight(s string) string {
	if NoColor() {
		return "'" + s + "'"
	}
	return color.CyanString(s)
}
