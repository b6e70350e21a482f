package vmtranslator

import (
	"io"
	"strings"
)

// Instruction is one line of vm code: a command keyword and its arguments.
type Instruction struct {
	Command KeyWordTP
	Args    []Token
	Line    int
}

func (inst *Instruction) String() string {
	var b strings.Builder
	b.WriteString(inst.Command.String())
	for _, arg := range inst.Args {
		b.WriteByte(' ')
		b.WriteString(arg.String())
	}
	return b.String()
}

// argument shapes accepted by each command.
type argKind int

const (
	segmentArg argKind = iota
	integerArg
	identifierArg
)

var commandArgs = map[KeyWordTP][]argKind{
	PushKeyWordTP:     {segmentArg, integerArg},
	PopKeyWordTP:      {segmentArg, integerArg},
	LabelKeyWordTP:    {identifierArg},
	GotoKeyWordTP:     {identifierArg},
	IfGotoKeyWordTP:   {identifierArg},
	FunctionKeyWordTP: {identifierArg, integerArg},
	CallKeyWordTP:     {identifierArg, integerArg},
}

// InstructionParser groups the tokens of a TokenSource into instructions,
// one per line.
type InstructionParser struct {
	fileName string
	src      TokenSource
}

func NewInstructionParser(fileName string, src TokenSource) *InstructionParser {
	return &InstructionParser{fileName: fileName, src: src}
}

// Next returns the next instruction, or io.EOF when the source is drained.
func (parser *InstructionParser) Next() (*Instruction, error) {
	first, err := parser.src.Next()
	if err != nil {
		return nil, err
	}
	if first.TP != KeyWordToken || !first.KeyWord.IsCommand() {
		return nil, makeError(parser.fileName, first.Line, first.String(), "expect a command")
	}
	inst := &Instruction{Command: first.KeyWord, Line: first.Line}
	for {
		token, err := parser.src.Next()
		if err == io.EOF {
			// the lexer always closes a line, so this is a truncated source.
			return nil, makeError(parser.fileName, inst.Line, inst.String(), "unexpected end of input")
		}
		if err != nil {
			return nil, err
		}
		if token.TP == NewLineToken {
			break
		}
		inst.Args = append(inst.Args, token)
	}
	if err := parser.checkArgs(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (parser *InstructionParser) checkArgs(inst *Instruction) error {
	kinds := commandArgs[inst.Command]
	if len(inst.Args) != len(kinds) {
		return makeError(parser.fileName, inst.Line, inst.String(), "wrong number of arguments")
	}
	for i, kind := range kinds {
		arg := inst.Args[i]
		switch kind {
		case segmentArg:
			if arg.TP != KeyWordToken || !arg.KeyWord.IsSegment() {
				return makeError(parser.fileName, inst.Line, arg.String(), "expect a segment")
			}
		case integerArg:
			if arg.TP != IntegerToken {
				return makeError(parser.fileName, inst.Line, arg.String(), "expect an integer")
			}
		case identifierArg:
			if arg.TP != IdentifierToken || !labelFormat.MatchString(arg.Ident) {
				return makeError(parser.fileName, inst.Line, arg.String(), "expect a name")
			}
		}
	}
	return nil
}
