package main

import (
	goerrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/midas-lang/midas/errors"
	"github.com/midas-lang/midas/internal/lexer"
	"github.com/midas-lang/midas/interpreter"
	"github.com/midas-lang/midas/parser"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Exit codes follow sysexits.h.
const (
	exitFailure  = 1
	exitDataErr  = 65
	exitSoftware = 70
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(exitFailure)
}

func printError(err error) {
	msg := errors.Render(err, !color.NoColor)
	fmt.Fprintln(os.Stderr, strings.TrimRight(msg, "\n"))
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var parseErrs *parser.Errors
	var lexErr *lexer.Error
	var runtimeErr *interpreter.RuntimeError
	switch {
	case err == nil:
		return 0
	case goerrors.As(err, &parseErrs), goerrors.As(err, &lexErr):
		return exitDataErr
	case goerrors.As(err, &runtimeErr):
		return exitSoftware
	default:
		return exitFailure
	}
}

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	stdout := os.Stdout.Fd()
	inTerm := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	outTerm := isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
	return inTerm && outTerm
}

// newLogger builds the diagnostic logger. Logs go to stderr so they never
// mix with program output.
func newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("log-level")))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	if level == zerolog.Disabled {
		return zerolog.Nop(), nil
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: color.NoColor}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() error {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
	return nil
}
