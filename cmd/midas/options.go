package main

import (
	"errors"
	"io"
	"os"

	"github.com/midas-lang/midas"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Returns the Midas options implied by the global flags and config.
func getMidasOptions(cmd *cobra.Command) ([]midas.Option, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	opts := []midas.Option{
		midas.WithStdout(cmd.OutOrStdout()),
		midas.WithLogger(logger),
		midas.WithMaxCallDepth(viper.GetInt("max-call-depth")),
		midas.WithMaxParseDepth(viper.GetInt("max-parse-depth")),
	}
	if viper.GetBool("no-default-globals") {
		opts = append(opts, midas.WithoutDefaultGlobals())
	}
	return opts, nil
}

func shouldRunRepl(cmd *cobra.Command, args []string) bool {
	if viper.GetBool("no-repl") {
		return false
	}
	if flagChanged(cmd, "stdin") || flagChanged(cmd, "code") {
		return false
	}
	if len(args) > 0 {
		return false
	}
	return isTerminalIO()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// getCode determines what code is to be processed. There are three
// possibilities:
//  1. --code <code>
//  2. --stdin (read code from stdin)
//  3. path as args[0]
//
// The second return value is the filename, if the code came from a file.
func getCode(cmd *cobra.Command, args []string) (string, string, error) {
	codeFlagSet := flagChanged(cmd, "code")
	stdinFlagSet := flagChanged(cmd, "stdin")
	pathSupplied := len(args) > 0
	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return "", "", errors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return "", "", errors.New("multiple input sources specified")
	}
	if stdinFlagSet {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	}
	if pathSupplied {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}
	if codeFlagSet {
		code, err := cmd.Flags().GetString("code")
		return code, "", err
	}
	return "", "", errors.New("no input provided")
}
