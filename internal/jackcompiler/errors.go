package jackcompiler

import "fmt"

// Stage names the part of the compiler that rejected the input.
type Stage string

const (
	TokenizerStage     Stage = "Tokenizer"
	ParserStage        Stage = "Parser"
	CodeGeneratorStage Stage = "CodeGenerator"
)

// CompileError is fatal to the class being compiled, nothing is recovered.
type CompileError struct {
	Stage Stage
	Line  int
	Near  string
	Msg   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: error near %s at line %d, msg: %s", e.Stage, e.Near, e.Line, e.Msg)
}
