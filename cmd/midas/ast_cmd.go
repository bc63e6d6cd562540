package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/midas-lang/midas"
	"github.com/midas-lang/midas/ast"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newAstCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Display the syntax tree for Midas code",
		Args:  cobra.MaximumNArgs(1),
		RunE:  astHandler,
	}
	addInputFlags(cmd, "Code to parse")
	cmd.Flags().StringP("output", "o", "text", "Output format (text, json or yaml)")
	return cmd
}

func astHandler(cmd *cobra.Command, args []string) error {
	code, filename, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	opts, err := getMidasOptions(cmd)
	if err != nil {
		return err
	}
	opts = append(opts, midas.WithFilename(filename))

	program, err := midas.Parse(cmd.Context(), code, opts...)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	return printAST(cmd.OutOrStdout(), program, format)
}

func printAST(w io.Writer, program *ast.Program, format string) error {
	var out []byte
	var err error
	switch strings.ToLower(format) {
	case "", "text":
		if s := program.String(); s != "" {
			_, err = fmt.Fprintln(w, s)
		}
		return err
	case "json":
		if color.NoColor {
			out, err = json.MarshalIndent(ast.Dump(program), "", "  ")
		} else {
			out, err = prettyjson.Marshal(ast.Dump(program))
		}
	case "yaml":
		out, err = yaml.Marshal(ast.Dump(program))
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(string(out), "\n"))
	return err
}
