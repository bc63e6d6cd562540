package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/midas-lang/midas"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runHandler(cmd *cobra.Command, args []string) error {
	opts, err := getMidasOptions(cmd)
	if err != nil {
		return err
	}

	if shouldRunRepl(cmd, args) {
		return runRepl(cmd.Context(), opts)
	}

	code, filename, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	if filename != "" {
		opts = append(opts, midas.WithFilename(filename))
	}

	start := time.Now()
	if _, err := midas.Eval(cmd.Context(), code, opts...); err != nil {
		return err
	}
	if viper.GetBool("timing") {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", time.Since(start))
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of midas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			out := cmd.OutOrStdout()
			if strings.ToLower(format) == "json" {
				info, err := json.MarshalIndent(map[string]any{
					"version": version,
					"commit":  commit,
					"date":    date,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(info))
			} else {
				fmt.Fprintln(out, version)
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output format (json or text)")
	return cmd
}
