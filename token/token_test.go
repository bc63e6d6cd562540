package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupIdentifier(t *testing.T) {
	require.Equal(t, FUNCTION, LookupIdentifier("fun"))
	require.Equal(t, END, LookupIdentifier("end"))
	require.Equal(t, IDENT, LookupIdentifier("fn"))
	require.Equal(t, IDENT, LookupIdentifier("Print"))
	require.Len(t, Keywords(), 19)
}

func TestPosition(t *testing.T) {
	pos := Position{Line: 2, Column: 4}
	require.Equal(t, 3, pos.LineNumber())
	require.Equal(t, 5, pos.ColumnNumber())
	require.Equal(t, "3:5", pos.String())
	require.True(t, pos.IsValid())
	require.False(t, NoPos.IsValid())

	pos.File = "main.midas"
	require.Equal(t, "main.midas:3:5", pos.String())
}

func TestTokenString(t *testing.T) {
	tok := Token{Type: NUMBER, Lexeme: "1.5", Value: 1.5, StartPosition: Position{Line: 1}}
	require.Equal(t, `NUMBER "1.5"`, tok.String())
	require.Equal(t, 2, tok.Line())
	require.Equal(t, "EOF", Token{Type: EOF}.String())

	synth := Synthetic(TRUE, "true", tok)
	require.Equal(t, TRUE, synth.Type)
	require.Equal(t, tok.StartPosition, synth.StartPosition)
	require.Nil(t, synth.Value)
}
