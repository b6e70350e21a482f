package vmtranslator

import (
	"bufio"
	"io"
	"strconv"

	"nand2tetris_toolchain/util"
)

// TokenSource is anything that yields vm tokens one at a time and returns
// io.EOF once exhausted.
type TokenSource interface {
	Next() (Token, error)
}

// Lexer splits vm source text into tokens, one line at a time. The tokens of
// a line are kept until they are consumed, so at most one line is buffered.
type Lexer struct {
	fileName string
	reader   *bufio.Reader
	line     int
	pending  []Token
	eof      bool
}

func NewLexer(fileName string, rd io.Reader) *Lexer {
	return &Lexer{fileName: fileName, reader: bufio.NewReader(rd)}
}

// Next returns the next token of the input, io.EOF when the input is over.
func (lexer *Lexer) Next() (Token, error) {
	for len(lexer.pending) == 0 {
		if lexer.eof {
			return Token{}, io.EOF
		}
		line, err := lexer.reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return Token{}, err
		}
		if err == io.EOF {
			lexer.eof = true
		}
		if len(line) == 0 {
			continue
		}
		lexer.line++
		lexer.pending, err = LexLine(lexer.fileName, line, lexer.line)
		if err != nil {
			return Token{}, err
		}
	}
	token := lexer.pending[0]
	lexer.pending = lexer.pending[1:]
	return token, nil
}

// LexLine tokenizes a single line. Blanks are skipped, a '/' starts a comment
// running to the end of the line. A token ends at a blank, a line break or a
// comment. When the line holds at least one token a NewLineToken is appended.
func LexLine(fileName string, line []byte, lineNo int) ([]Token, error) {
	var tokens []Token
	pos := 0
	for pos < len(line) {
		c := line[pos]
		if util.IsBlank(c) || util.IsLineBreak(c) {
			pos++
			continue
		}
		if c == '/' {
			break
		}
		start := pos
		for pos < len(line) && !isTokenBoundary(line[pos]) {
			if util.IsNumber(line[start]) && !util.IsNumber(line[pos]) {
				break
			}
			pos++
		}
		word := string(line[start:pos])
		token, err := makeToken(fileName, word, lineNo)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if len(tokens) > 0 {
		tokens = append(tokens, Token{TP: NewLineToken, Line: lineNo})
	}
	return tokens, nil
}

func isTokenBoundary(c byte) bool {
	return util.IsBlank(c) || util.IsLineBreak(c) || c == '/'
}

func makeToken(fileName, word string, lineNo int) (Token, error) {
	if util.IsNumber(word[0]) {
		// The width of a cell is not checked here, the code generator decides.
		value, err := strconv.Atoi(word)
		if err != nil {
			return Token{}, makeError(fileName, lineNo, word, "integer literal out of range")
		}
		return Token{TP: IntegerToken, Int: value, Line: lineNo}, nil
	}
	keyWord, ok := keyWordsMap[word]
	if ok {
		return Token{TP: KeyWordToken, KeyWord: keyWord, Line: lineNo}, nil
	}
	return Token{TP: IdentifierToken, Ident: word, Line: lineNo}, nil
}
