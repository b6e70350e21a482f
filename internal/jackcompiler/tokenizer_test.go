package jackcompiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(content string) ([]*Tag, error) {
	buffer := &TagBuffer{}
	err := Copy(buffer, NewTokenizer(strings.NewReader(content)))
	return buffer.Tags(), err
}

func tagStrings(tags []*Tag) []string {
	ret := make([]string, 0, len(tags))
	for _, tag := range tags {
		ret = append(ret, tag.String())
	}
	return ret
}

func TestTokenizer(t *testing.T) {
	testData := []struct {
		Content string
		Tags    []string
	}{
		{
			Content: "class Main { field int x_1; }",
			Tags: []string{"keyword(class)", "identifier(Main)", "symbol({)", "keyword(field)", "keyword(int)",
				"identifier(x_1)", "symbol(;)", "symbol(})"},
		},
		{
			Content: "let s = \"hi there\";",
			Tags: []string{"keyword(let)", "identifier(s)", "symbol(=)", "stringConstant(hi there)",
				"symbol(;)"},
		},
		{
			Content: "a/b // divide\n-~(c*2)",
			Tags: []string{"identifier(a)", "symbol(/)", "identifier(b)", "symbol(-)", "symbol(~)", "symbol(()",
				"identifier(c)", "symbol(*)", "integerConstant(2)", "symbol())"},
		},
		{
			Content: "/** doc */ do /* a */ f(/**/);",
			Tags:    []string{"keyword(do)", "identifier(f)", "symbol(()", "symbol())", "symbol(;)"},
		},
		{
			Content: "\tif\r\n(x<y&z>w|q=r)",
			Tags: []string{"keyword(if)", "symbol(()", "identifier(x)", "symbol(<)", "identifier(y)", "symbol(&)",
				"identifier(z)", "symbol(>)", "identifier(w)", "symbol(|)", "identifier(q)", "symbol(=)",
				"identifier(r)", "symbol())"},
		},
		{
			Content: "classy returned 32767 0",
			Tags:    []string{"identifier(classy)", "identifier(returned)", "integerConstant(32767)", "integerConstant(0)"},
		},
		{
			Content: "// nothing\n\n   \n",
			Tags:    []string{},
		},
	}
	for _, data := range testData {
		tags, err := tokenize(data.Content)
		require.Nil(t, err, data.Content)
		assert.Equal(t, data.Tags, tagStrings(tags), data.Content)
	}
}

func TestTokenizerCommentSpansLines(t *testing.T) {
	content := `let /* first
second line
third */ x = 1; /* again
*/ return`
	tags, err := tokenize(content)
	require.Nil(t, err)
	assert.Equal(t, []string{"keyword(let)", "identifier(x)", "symbol(=)", "integerConstant(1)", "symbol(;)",
		"keyword(return)"}, tagStrings(tags))
	var lines []int
	for _, tag := range tags {
		lines = append(lines, tag.Line)
	}
	assert.Equal(t, []int{1, 3, 3, 3, 3, 4}, lines)
}

func TestTokenizerErrors(t *testing.T) {
	testData := []struct {
		Content string
		Line    int
	}{
		{Content: "let s = \"open;\nx", Line: 1},
		{Content: "let x = 1;\nlet y = #;", Line: 2},
		{Content: "x\n/* never\nclosed", Line: 2},
		{Content: "let x = 32768;", Line: 1},
		{Content: "let x = 'a';", Line: 1},
	}
	for _, data := range testData {
		_, err := tokenize(data.Content)
		require.NotNil(t, err, data.Content)
		compileErr, ok := err.(*CompileError)
		require.True(t, ok, data.Content)
		assert.Equal(t, TokenizerStage, compileErr.Stage, data.Content)
		assert.Equal(t, data.Line, compileErr.Line, data.Content)
	}
}
