package vmtranslator

import "fmt"

// There are four kinds of vm commands, they are:
// * Arithmetic commands: add, sub, neg, eq, gt, lt, and, or, not.
// * Memory access commands: push segment index, pop segment index, where segment can be
//   argument, local, static, constant, this, that, pointer, temp.
// * Program flow commands: label name, goto name, if-goto name.
// * Function calling commands: function f k, call f n, return.

type KeyWordTP int

const (
	PushKeyWordTP KeyWordTP = iota
	PopKeyWordTP
	ArgumentKeyWordTP
	LocalKeyWordTP
	StaticKeyWordTP
	ConstantKeyWordTP
	ThisKeyWordTP
	ThatKeyWordTP
	PointerKeyWordTP
	TempKeyWordTP
	AddKeyWordTP
	SubKeyWordTP
	NegKeyWordTP
	EqKeyWordTP
	GtKeyWordTP
	LtKeyWordTP
	AndKeyWordTP
	OrKeyWordTP
	NotKeyWordTP
	LabelKeyWordTP
	IfGotoKeyWordTP
	GotoKeyWordTP
	FunctionKeyWordTP
	CallKeyWordTP
	ReturnKeyWordTP
)

// keyWordsMap is matched exactly, vm keywords are case sensitive.
var keyWordsMap = map[string]KeyWordTP{
	"push":     PushKeyWordTP,
	"pop":      PopKeyWordTP,
	"argument": ArgumentKeyWordTP,
	"local":    LocalKeyWordTP,
	"static":   StaticKeyWordTP,
	"constant": ConstantKeyWordTP,
	"this":     ThisKeyWordTP,
	"that":     ThatKeyWordTP,
	"pointer":  PointerKeyWordTP,
	"temp":     TempKeyWordTP,
	"add":      AddKeyWordTP,
	"sub":      SubKeyWordTP,
	"neg":      NegKeyWordTP,
	"eq":       EqKeyWordTP,
	"gt":       GtKeyWordTP,
	"lt":       LtKeyWordTP,
	"and":      AndKeyWordTP,
	"or":       OrKeyWordTP,
	"not":      NotKeyWordTP,
	"label":    LabelKeyWordTP,
	"if-goto":  IfGotoKeyWordTP,
	"goto":     GotoKeyWordTP,
	"function": FunctionKeyWordTP,
	"call":     CallKeyWordTP,
	"return":   ReturnKeyWordTP,
}

var keyWordNames = func() map[KeyWordTP]string {
	ret := make(map[KeyWordTP]string, len(keyWordsMap))
	for name, tp := range keyWordsMap {
		ret[tp] = name
	}
	return ret
}()

func (tp KeyWordTP) String() string {
	name, ok := keyWordNames[tp]
	if !ok {
		return fmt.Sprintf("KeyWordTP(%d)", int(tp))
	}
	return name
}

// IsCommand reports whether tp may start an instruction.
func (tp KeyWordTP) IsCommand() bool {
	switch tp {
	case PushKeyWordTP, PopKeyWordTP, AddKeyWordTP, SubKeyWordTP, NegKeyWordTP, EqKeyWordTP, GtKeyWordTP,
		LtKeyWordTP, AndKeyWordTP, OrKeyWordTP, NotKeyWordTP, LabelKeyWordTP, IfGotoKeyWordTP, GotoKeyWordTP,
		FunctionKeyWordTP, CallKeyWordTP, ReturnKeyWordTP:
		return true
	}
	return false
}

// IsSegment reports whether tp names a memory segment.
func (tp KeyWordTP) IsSegment() bool {
	switch tp {
	case ArgumentKeyWordTP, LocalKeyWordTP, StaticKeyWordTP, ConstantKeyWordTP, ThisKeyWordTP, ThatKeyWordTP,
		PointerKeyWordTP, TempKeyWordTP:
		return true
	}
	return false
}

type TokenType int

const (
	KeyWordToken TokenType = iota
	IntegerToken
	IdentifierToken
	NewLineToken
)

// Token is one lexical unit of a vm file. Which payload is meaningful is
// decided by TP: KeyWord for KeyWordToken, Int for IntegerToken and Ident for
// IdentifierToken. A NewLineToken carries no payload.
type Token struct {
	TP      TokenType
	KeyWord KeyWordTP
	Int     int
	Ident   string
	Line    int
}

func (t Token) String() string {
	switch t.TP {
	case KeyWordToken:
		return t.KeyWord.String()
	case IntegerToken:
		return fmt.Sprintf("%d", t.Int)
	case IdentifierToken:
		return t.Ident
	case NewLineToken:
		return "\\n"
	}
	return "?"
}
