package jackcompiler

import (
	"bufio"
	"io"
	"strconv"

	"nand2tetris_toolchain/util"
)

// Tokenizer is a TagSource over jack source text. It reads one line at a
// time; a block comment may stay open across lines.
type Tokenizer struct {
	reader      *bufio.Reader
	currentLine int
	currentPos  int
	inComment   bool
	commentLine int
	pending     []*Tag
	eof         bool
}

func NewTokenizer(rd io.Reader) *Tokenizer {
	return &Tokenizer{reader: bufio.NewReader(rd)}
}

// Next returns the next token tag, io.EOF once the source is consumed.
func (tokenizer *Tokenizer) Next() (*Tag, error) {
	for len(tokenizer.pending) == 0 {
		if tokenizer.eof {
			if tokenizer.inComment {
				return nil, tokenizer.makeError("/*", tokenizer.commentLine, "comment is not closed")
			}
			return nil, io.EOF
		}
		line, err := tokenizer.reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if err == io.EOF {
			tokenizer.eof = true
		}
		if len(line) == 0 {
			continue
		}
		tokenizer.currentLine++
		if err := tokenizer.tokenizeLine(line); err != nil {
			return nil, err
		}
	}
	tag := tokenizer.pending[0]
	tokenizer.pending = tokenizer.pending[1:]
	return tag, nil
}

func (tokenizer *Tokenizer) tokenizeLine(line []byte) error {
	tokenizer.currentPos = 0
	for {
		tag, err := tokenizer.getNextToken(line)
		if err != nil {
			return err
		}
		if tag == nil {
			return nil
		}
		tokenizer.pending = append(tokenizer.pending, tag)
	}
}

// getNextToken returns the next token of line, nil when the rest of the line
// holds no token.
func (tokenizer *Tokenizer) getNextToken(line []byte) (*Tag, error) {
	if !tokenizer.skipSpaceAndComments(line) {
		return nil, nil
	}
	switch c := line[tokenizer.currentPos]; c {
	case '{', '}', '(', ')', '[', ']', '.', ',', ';', '+', '-', '*', '/', '&', '|', '>', '<', '=', '~':
		return tokenizer.tokenSimpleSymbol(line)
	case '"':
		return tokenizer.tokenString(line)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9', '0':
		return tokenizer.tokenNumber(line)
	default:
		if !util.IsLetterOrUnderscore(c) {
			return nil, tokenizer.makeError(string(c), tokenizer.currentLine, "unexpected character")
		}
		return tokenizer.toKeywordOrIdentifier(line), nil
	}
}

// skipSpaceAndComments steps over blanks and comments, it reports whether a
// token starts at currentPos.
func (tokenizer *Tokenizer) skipSpaceAndComments(line []byte) bool {
	for tokenizer.currentPos < len(line) {
		if tokenizer.inComment {
			if !tokenizer.lookForwardForClosingComment(line) {
				return false
			}
			continue
		}
		c := line[tokenizer.currentPos]
		if util.IsBlank(c) || util.IsLineBreak(c) {
			tokenizer.currentPos++
			continue
		}
		if c != '/' || tokenizer.currentPos+1 >= len(line) {
			return true
		}
		switch line[tokenizer.currentPos+1] {
		case '/':
			// the rest of the line is a comment.
			tokenizer.currentPos = len(line)
			return false
		case '*':
			tokenizer.inComment = true
			tokenizer.commentLine = tokenizer.currentLine
			tokenizer.currentPos += 2
		default:
			return true
		}
	}
	return false
}

// lookForwardForClosingComment moves past the next */ of line. When the line
// has none the comment stays open for the next line.
func (tokenizer *Tokenizer) lookForwardForClosingComment(line []byte) bool {
	for tokenizer.currentPos < len(line)-1 {
		if line[tokenizer.currentPos] == '*' && line[tokenizer.currentPos+1] == '/' {
			tokenizer.currentPos += 2
			tokenizer.inComment = false
			return true
		}
		tokenizer.currentPos++
	}
	tokenizer.currentPos = len(line)
	return false
}

func (tokenizer *Tokenizer) tokenSimpleSymbol(line []byte) (*Tag, error) {
	tag := &Tag{TP: SymbolTag, Symbol: line[tokenizer.currentPos], Line: tokenizer.currentLine}
	tokenizer.currentPos++
	return tag, nil
}

func (tokenizer *Tokenizer) tokenString(line []byte) (*Tag, error) {
	// Looking forward through line to find a closing quote.
	startPos := tokenizer.currentPos
	tokenizer.currentPos++
	for tokenizer.currentPos < len(line) {
		if line[tokenizer.currentPos] == '"' {
			tokenizer.currentPos++
			return &Tag{
				TP:   StringConstantTag,
				Str:  string(line[startPos+1 : tokenizer.currentPos-1]),
				Line: tokenizer.currentLine,
			}, nil
		}
		if util.IsLineBreak(line[tokenizer.currentPos]) {
			break
		}
		tokenizer.currentPos++
	}
	// If cannot find an closing quote, then string format is not correct.
	return nil, tokenizer.makeError(string(line[startPos:tokenizer.currentPos]), tokenizer.currentLine,
		"incorrect string format")
}

func (tokenizer *Tokenizer) tokenNumber(line []byte) (*Tag, error) {
	// Look forward to find a continuous number
	startPos := tokenizer.currentPos
	for tokenizer.currentPos < len(line) && util.IsNumber(line[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	// What follows the digits is left to the parser.
	content := string(line[startPos:tokenizer.currentPos])
	value, err := strconv.Atoi(content)
	if err != nil || value > util.MaxConstant {
		return nil, tokenizer.makeError(content, tokenizer.currentLine, "integer constant out of range")
	}
	return &Tag{TP: IntegerConstantTag, Int: value, Line: tokenizer.currentLine}, nil
}

func (tokenizer *Tokenizer) toKeywordOrIdentifier(line []byte) *Tag {
	// Look forward to find a continuous characters.
	startPos := tokenizer.currentPos
	for tokenizer.currentPos < len(line) && util.IsLetterOrUnderscoreOrNumber(line[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	content := string(line[startPos:tokenizer.currentPos])
	if keyWord, isKeyWord := keyWordTPMap[content]; isKeyWord {
		return &Tag{TP: KeywordTag, KeyWord: keyWord, Line: tokenizer.currentLine}
	}
	return &Tag{TP: IdentifierTag, Str: content, Line: tokenizer.currentLine}
}

func (tokenizer *Tokenizer) makeError(near string, line int, msg string) error {
	return &CompileError{Stage: TokenizerStage, Line: line, Near: near, Msg: msg}
}
