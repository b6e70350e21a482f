package jackcompiler

import (
	"fmt"
	"strconv"
)

// Jack has those elements:
// * KeyWord: class, constructor, function, method, field, static, var, int, char, boolean, void, true,
// 			false, null, this, let, do, if, else, while, return.
// * Symbol: {, }, (, ), [, ], ., ,, ;, +, -, *, /, &, |, <, >, =, ~.
// * Constant: integer, string ("xxx")
// * Identifier: letters, digits, underscore, not starting with a digit.
// * Comment: /**/, //.
//
// Both the token stream and the parse tree are flat streams of tags. A parse
// tree is the token stream with non terminal open/close tags around every
// production.

type TagType int

const (
	KeywordTag TagType = iota
	SymbolTag
	IntegerConstantTag
	StringConstantTag
	IdentifierTag
	NonTerminalTag
)

var tagTypeNames = map[TagType]string{
	KeywordTag:         "keyword",
	SymbolTag:          "symbol",
	IntegerConstantTag: "integerConstant",
	StringConstantTag:  "stringConstant",
	IdentifierTag:      "identifier",
	NonTerminalTag:     "nonTerminal",
}

func (tp TagType) String() string {
	return tagTypeNames[tp]
}

type KeyWordTP int

const (
	ClassTP       KeyWordTP = iota // class
	ConstructorTP                  // constructor
	FunctionTP                     // function
	MethodTP                       // method
	FieldTP                        // field
	StaticTP                       // static
	VarTP                          // var
	IntTP                          // int
	CharTP                         // char
	BooleanTP                      // boolean
	VoidTP                         // void
	TrueTP                         // true
	FalseTP                        // false
	NullTP                         // null
	ThisTP                         // this
	LetTP                          // let
	DoTP                           // do
	IfTP                           // if
	ElseTP                         // else
	WhileTP                        // while
	ReturnTP                       // return
)

// keyWordTPMap is the mapping from identifier to the corresponding KeyWordTP.
var keyWordTPMap = map[string]KeyWordTP{
	"class":       ClassTP,
	"constructor": ConstructorTP,
	"function":    FunctionTP,
	"method":      MethodTP,
	"field":       FieldTP,
	"static":      StaticTP,
	"var":         VarTP,
	"int":         IntTP,
	"char":        CharTP,
	"boolean":     BooleanTP,
	"void":        VoidTP,
	"true":        TrueTP,
	"false":       FalseTP,
	"null":        NullTP,
	"this":        ThisTP,
	"let":         LetTP,
	"do":          DoTP,
	"if":          IfTP,
	"else":        ElseTP,
	"while":       WhileTP,
	"return":      ReturnTP,
}

var keyWordNames = func() map[KeyWordTP]string {
	ret := make(map[KeyWordTP]string, len(keyWordTPMap))
	for name, tp := range keyWordTPMap {
		ret[tp] = name
	}
	return ret
}()

func (tp KeyWordTP) String() string {
	return keyWordNames[tp]
}

type NonTerminal int

const (
	ClassNT NonTerminal = iota
	ClassVarDecNT
	SubroutineDecNT
	ParameterListNT
	SubroutineBodyNT
	VarDecNT
	StatementsNT
	LetStatementNT
	IfStatementNT
	WhileStatementNT
	DoStatementNT
	ReturnStatementNT
	ExpressionNT
	TermNT
	ExpressionListNT
	SubroutineCallNT
	TokensNT
)

var nonTerminalNames = map[NonTerminal]string{
	ClassNT:           "class",
	ClassVarDecNT:     "classVarDec",
	SubroutineDecNT:   "subroutineDec",
	ParameterListNT:   "parameterList",
	SubroutineBodyNT:  "subroutineBody",
	VarDecNT:          "varDec",
	StatementsNT:      "statements",
	LetStatementNT:    "letStatement",
	IfStatementNT:     "ifStatement",
	WhileStatementNT:  "whileStatement",
	DoStatementNT:     "doStatement",
	ReturnStatementNT: "returnStatement",
	ExpressionNT:      "expression",
	TermNT:            "term",
	ExpressionListNT:  "expressionList",
	SubroutineCallNT:  "subroutineCall",
	TokensNT:          "tokens",
}

func (nt NonTerminal) String() string {
	return nonTerminalNames[nt]
}

// Tag is a token or a non terminal marker. TP decides the meaningful field:
// KeyWord, Symbol, Int, Str (string constants and identifiers) or
// NonTerminal with Close.
type Tag struct {
	TP          TagType
	KeyWord     KeyWordTP
	Symbol      byte
	Int         int
	Str         string
	NonTerminal NonTerminal
	Close       bool
	Line        int
}

// Value is the lexical content of a terminal, or the production name of a
// non terminal.
func (tag *Tag) Value() string {
	switch tag.TP {
	case KeywordTag:
		return tag.KeyWord.String()
	case SymbolTag:
		return string(tag.Symbol)
	case IntegerConstantTag:
		return strconv.Itoa(tag.Int)
	case StringConstantTag, IdentifierTag:
		return tag.Str
	default:
		return tag.NonTerminal.String()
	}
}

func (tag *Tag) String() string {
	if tag.TP != NonTerminalTag {
		return fmt.Sprintf("%s(%s)", tag.TP, tag.Value())
	}
	if tag.Close {
		return "/" + tag.NonTerminal.String()
	}
	return tag.NonTerminal.String()
}

func openTag(nt NonTerminal, line int) *Tag {
	return &Tag{TP: NonTerminalTag, NonTerminal: nt, Line: line}
}

func closeTag(nt NonTerminal, line int) *Tag {
	return &Tag{TP: NonTerminalTag, NonTerminal: nt, Close: true, Line: line}
}

func (tag *Tag) isKeyword(keyWords ...KeyWordTP) bool {
	if tag == nil || tag.TP != KeywordTag {
		return false
	}
	for _, keyWord := range keyWords {
		if tag.KeyWord == keyWord {
			return true
		}
	}
	return false
}

func (tag *Tag) isSymbol(symbol byte) bool {
	return tag != nil && tag.TP == SymbolTag && tag.Symbol == symbol
}

func (tag *Tag) isOpen(nt NonTerminal) bool {
	return tag != nil && tag.TP == NonTerminalTag && !tag.Close && tag.NonTerminal == nt
}

func (tag *Tag) isClose(nt NonTerminal) bool {
	return tag != nil && tag.TP == NonTerminalTag && tag.Close && tag.NonTerminal == nt
}
