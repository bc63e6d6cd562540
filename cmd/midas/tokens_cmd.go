package main

import (
	"fmt"
	"io"

	"github.com/midas-lang/midas"
	"github.com/midas-lang/midas/token"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Display the token stream for Midas code",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tokensHandler,
	}
	addInputFlags(cmd, "Code to scan")
	return cmd
}

// Tokens are printed even when scanning fails; the offending characters
// are reported after the stream.
func tokensHandler(cmd *cobra.Command, args []string) error {
	code, filename, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	tokens, err := midas.Tokenize(code, midas.WithFilename(filename))
	printTokens(cmd.OutOrStdout(), tokens)
	return err
}

func printTokens(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		pos := fmt.Sprintf("%d:%d", tok.StartPosition.LineNumber(), tok.StartPosition.ColumnNumber())
		if tok.Type == token.EOF {
			fmt.Fprintf(w, "%-8s %s\n", pos, tok.Type)
			continue
		}
		fmt.Fprintf(w, "%-8s %-12s %s\n", pos, tok.Type, tok.Lexeme)
	}
}
