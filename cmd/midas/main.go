package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/midas-lang/midas/interpreter"
	"github.com/midas-lang/midas/parser"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfgFile string

func init() {
	cobra.OnInitialize(initConfig)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "midas [file]",
		Short: "Midas is a small scripting language",
		Long: `Run a Midas script from a file, from --code, or from stdin.
With no input and an interactive terminal, midas starts a REPL.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return processGlobalFlags() },
		RunE:              runHandler,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.midas.yaml)")
	pf.Bool("no-color", false, "Disable colored output")
	pf.Bool("no-default-globals", false, "Disable the default globals")
	pf.String("log-level", "disabled", "Log level: trace, debug, info, warn, error, disabled")
	pf.Int("max-call-depth", interpreter.DefaultMaxCallDepth, "Maximum function call depth")
	pf.Int("max-parse-depth", parser.DefaultMaxDepth, "Maximum syntactic nesting depth")
	for _, name := range []string{"no-color", "no-default-globals", "log-level", "max-call-depth", "max-parse-depth"} {
		viper.BindPFlag(name, pf.Lookup(name))
	}

	addInputFlags(cmd, "Code to run")
	cmd.Flags().Bool("no-repl", false, "Disable the REPL")
	cmd.Flags().Bool("timing", false, "Show timing information")
	viper.BindPFlag("no-repl", cmd.Flags().Lookup("no-repl"))
	viper.BindPFlag("timing", cmd.Flags().Lookup("timing"))

	cmd.AddCommand(newAstCmd(), newTokensCmd(), newVersionCmd())
	return cmd
}

// addInputFlags registers the flags read by getCode.
func addInputFlags(cmd *cobra.Command, codeHelp string) {
	cmd.Flags().StringP("code", "c", "", codeHelp)
	cmd.Flags().Bool("stdin", false, "Read code from stdin")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fatal(err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".midas")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("midas")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fatal(fmt.Errorf("reading config: %w", err))
		}
	}
}

func main() {
	// An interrupt cancels the running program instead of killing the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(err)
		os.Exit(exitCode(err))
	}
}
