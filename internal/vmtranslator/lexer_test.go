package vmtranslator

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexLine(t *testing.T) {
	testData := []struct {
		line   string
		tokens []Token
	}{
		{"", nil},
		{"   \t\r\n", nil},
		{"// only a comment\n", nil},
		{"push constant 7\n", []Token{
			{TP: KeyWordToken, KeyWord: PushKeyWordTP, Line: 3},
			{TP: KeyWordToken, KeyWord: ConstantKeyWordTP, Line: 3},
			{TP: IntegerToken, Int: 7, Line: 3},
			{TP: NewLineToken, Line: 3},
		}},
		{"\tif-goto LOOP_1// jump back\r\n", []Token{
			{TP: KeyWordToken, KeyWord: IfGotoKeyWordTP, Line: 3},
			{TP: IdentifierToken, Ident: "LOOP_1", Line: 3},
			{TP: NewLineToken, Line: 3},
		}},
		{"function Main.fib 2", []Token{
			{TP: KeyWordToken, KeyWord: FunctionKeyWordTP, Line: 3},
			{TP: IdentifierToken, Ident: "Main.fib", Line: 3},
			{TP: IntegerToken, Int: 2, Line: 3},
			{TP: NewLineToken, Line: 3},
		}},
		// keywords are case sensitive.
		{"Push", []Token{
			{TP: IdentifierToken, Ident: "Push", Line: 3},
			{TP: NewLineToken, Line: 3},
		}},
		// the lexer does not check the width of an integer.
		{"push constant 99999", []Token{
			{TP: KeyWordToken, KeyWord: PushKeyWordTP, Line: 3},
			{TP: KeyWordToken, KeyWord: ConstantKeyWordTP, Line: 3},
			{TP: IntegerToken, Int: 99999, Line: 3},
			{TP: NewLineToken, Line: 3},
		}},
	}
	for _, data := range testData {
		tokens, err := LexLine("Test.vm", []byte(data.line), 3)
		require.Nil(t, err, data.line)
		assert.Equal(t, data.tokens, tokens, data.line)
	}
}

func TestLexLineRejectsHugeInteger(t *testing.T) {
	_, err := LexLine("Test.vm", []byte("push constant 99999999999999999999999"), 1)
	require.NotNil(t, err)
	_, ok := err.(*SyntaxError)
	assert.True(t, ok)
}

func TestLexer(t *testing.T) {
	content := `// comment
push constant 1

   add   // sum
return`
	lexer := NewLexer("Test.vm", strings.NewReader(content))
	var got []string
	var lines []int
	for {
		token, err := lexer.Next()
		if err == io.EOF {
			break
		}
		require.Nil(t, err)
		got = append(got, token.String())
		lines = append(lines, token.Line)
	}
	assert.Equal(t, []string{"push", "constant", "1", "\\n", "add", "\\n", "return", "\\n"}, got)
	assert.Equal(t, []int{2, 2, 2, 2, 4, 4, 5, 5}, lines)

	_, err := lexer.Next()
	assert.Equal(t, io.EOF, err)
}
