package vmtranslator

import "fmt"

// SyntaxError reports malformed vm input. Every syntax error aborts the
// current translation unit.
type SyntaxError struct {
	File string
	Line int
	Near string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError: syntax error near %s at %s:%d: %s", e.Near, e.File, e.Line, e.Msg)
}

func makeError(file string, line int, near string, msg string) error {
	return &SyntaxError{File: file, Line: line, Near: near, Msg: msg}
}
