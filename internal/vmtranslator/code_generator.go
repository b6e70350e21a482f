package vmtranslator

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"nand2tetris_toolchain/util"
)

var labelFormat = regexp.MustCompile("^[a-zA-Z_.:][0-9a-zA-Z_.$:]*$")

// segment base pointers of the hack platform.
var segmentPointers = map[KeyWordTP]string{
	LocalKeyWordTP:    "LCL",
	ArgumentKeyWordTP: "ARG",
	ThisKeyWordTP:     "THIS",
	ThatKeyWordTP:     "THAT",
}

const (
	tempBase    = 5
	tempSize    = 8
	scratchCell = "R13"
)

// CodeGenerator turns the instructions of one vm file into hack assembly.
// Automatic labels are numbered by a counter living on the generator, so a
// fresh generator must be used for every file.
type CodeGenerator struct {
	w        io.Writer
	fileName string
	labelID  int
	err      error
}

// NewCodeGenerator creates a generator for the file called fileName. Any
// directory and the .vm extension are stripped, the rest qualifies statics
// and labels.
func NewCodeGenerator(w io.Writer, fileName string) *CodeGenerator {
	return &CodeGenerator{w: w, fileName: baseName(fileName)}
}

func baseName(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (gen *CodeGenerator) write(format string, args ...interface{}) {
	if gen.err != nil {
		return
	}
	_, gen.err = fmt.Fprintf(gen.w, format, args...)
}

func (gen *CodeGenerator) autoLabel() string {
	label := fmt.Sprintf("auto$%s$%d", gen.fileName, gen.labelID)
	gen.labelID++
	return label
}

func (gen *CodeGenerator) manualLabel(name string) string {
	return fmt.Sprintf("manual$%s$%s", gen.fileName, name)
}

func functionLabel(name string) string {
	return "call$" + name
}

func (gen *CodeGenerator) makeError(inst *Instruction, near string, msg string) error {
	return makeError(gen.fileName, inst.Line, near, msg)
}

// Generate writes the assembly of a single instruction.
func (gen *CodeGenerator) Generate(inst *Instruction) error {
	for _, arg := range inst.Args {
		if arg.TP == IntegerToken && arg.Int > util.MaxConstant {
			return gen.makeError(inst, arg.String(), "integer does not fit in 15 bits")
		}
	}
	gen.write("// %s\n", inst)
	var err error
	switch inst.Command {
	case PushKeyWordTP:
		err = gen.generatePush(inst)
	case PopKeyWordTP:
		err = gen.generatePop(inst)
	case AddKeyWordTP:
		gen.generateBinary("M=M+D")
	case SubKeyWordTP:
		gen.generateBinary("M=M-D")
	case AndKeyWordTP:
		gen.generateBinary("M=M&D")
	case OrKeyWordTP:
		gen.generateBinary("M=M|D")
	case NegKeyWordTP:
		gen.generateUnary("M=-M")
	case NotKeyWordTP:
		gen.generateUnary("M=!M")
	case EqKeyWordTP:
		gen.generateCompare("JEQ")
	case LtKeyWordTP:
		gen.generateCompare("JGT")
	case GtKeyWordTP:
		gen.generateCompare("JLT")
	case LabelKeyWordTP:
		gen.write("(%s)\n", gen.manualLabel(inst.Args[0].Ident))
	case GotoKeyWordTP:
		gen.write("@%s\n0;JMP\n", gen.manualLabel(inst.Args[0].Ident))
	case IfGotoKeyWordTP:
		gen.generateIfGoto(inst.Args[0].Ident)
	case FunctionKeyWordTP:
		gen.generateFunction(inst.Args[0].Ident, inst.Args[1].Int)
	case CallKeyWordTP:
		gen.generateCall(inst.Args[0].Ident, inst.Args[1].Int)
	case ReturnKeyWordTP:
		gen.generateReturn()
	default:
		err = gen.makeError(inst, inst.Command.String(), "expect a command")
	}
	if err != nil {
		return err
	}
	return gen.err
}

// generateAddress leaves the address of segment[index] in A.
// local, argument, this, that:
// @index
// D=A
// @LCL
// A=M+D
// pointer 0|1: @THIS | @THAT
// temp i:      @R(5+i)
// static i:    @File.i
func (gen *CodeGenerator) generateAddress(inst *Instruction) error {
	segment, index := inst.Args[0], inst.Args[1]
	switch segment.KeyWord {
	case LocalKeyWordTP, ArgumentKeyWordTP, ThisKeyWordTP, ThatKeyWordTP:
		gen.write("@%d\nD=A\n@%s\nA=M+D\n", index.Int, segmentPointers[segment.KeyWord])
	case PointerKeyWordTP:
		switch index.Int {
		case 0:
			gen.write("@THIS\n")
		case 1:
			gen.write("@THAT\n")
		default:
			return gen.makeError(inst, index.String(), "pointer index must be 0 or 1")
		}
	case TempKeyWordTP:
		if index.Int >= tempSize {
			return gen.makeError(inst, index.String(), "temp index out of range")
		}
		gen.write("@R%d\n", tempBase+index.Int)
	case StaticKeyWordTP:
		gen.write("@%s.%d\n", gen.fileName, index.Int)
	default:
		return gen.makeError(inst, segment.String(), "expect a segment")
	}
	return nil
}

// generatePush handles push segment index:
// @index            // constant
// D=A
// or
// <address of segment[index]>
// D=M
// then
// @SP
// M=M+1
// A=M-1
// M=D
func (gen *CodeGenerator) generatePush(inst *Instruction) error {
	if inst.Args[0].KeyWord == ConstantKeyWordTP {
		gen.write("@%d\nD=A\n", inst.Args[1].Int)
	} else {
		if err := gen.generateAddress(inst); err != nil {
			return err
		}
		gen.write("D=M\n")
	}
	gen.write("@SP\nM=M+1\nA=M-1\nM=D\n")
	return nil
}

// generatePop handles pop segment index:
// <address of segment[index]>
// D=A
// @R13
// M=D
// @SP
// M=M-1
// A=M
// D=M
// @R13
// A=M
// M=D
func (gen *CodeGenerator) generatePop(inst *Instruction) error {
	if inst.Args[0].KeyWord == ConstantKeyWordTP {
		return gen.makeError(inst, inst.Args[0].String(), "cannot pop to constant")
	}
	if err := gen.generateAddress(inst); err != nil {
		return err
	}
	gen.write("D=A\n@%[1]s\nM=D\n@SP\nM=M-1\nA=M\nD=M\n@%[1]s\nA=M\nM=D\n", scratchCell)
	return nil
}

// generateBinary pops the top into D and combines it into the new top:
// @SP
// M=M-1
// A=M
// D=M
// @SP
// A=M-1
// M=M+D
func (gen *CodeGenerator) generateBinary(op string) {
	gen.write("@SP\nM=M-1\nA=M\nD=M\n@SP\nA=M-1\n%s\n", op)
}

// generateUnary rewrites the top in place:
// @SP
// A=M-1
// M=-M
func (gen *CodeGenerator) generateUnary(op string) {
	gen.write("@SP\nA=M-1\n%s\n", op)
}

// generateCompare computes top - second, so lt jumps on JGT and gt on JLT.
// @SP
// M=M-1
// A=M
// D=M
// @SP
// A=M-1
// D=D-M
// @auto$File$n
// D;JEQ
// @SP
// A=M-1
// M=0
// @auto$File$n+1
// 0;JMP
// (auto$File$n)
// @SP
// A=M-1
// M=-1
// (auto$File$n+1)
func (gen *CodeGenerator) generateCompare(jump string) {
	trueLabel, endLabel := gen.autoLabel(), gen.autoLabel()
	gen.write("@SP\nM=M-1\nA=M\nD=M\n@SP\nA=M-1\nD=D-M\n")
	gen.write("@%s\nD;%s\n", trueLabel, jump)
	gen.write("@SP\nA=M-1\nM=0\n@%s\n0;JMP\n", endLabel)
	gen.write("(%s)\n@SP\nA=M-1\nM=-1\n(%s)\n", trueLabel, endLabel)
}

// generateIfGoto jumps when the popped value is not zero:
// @SP
// M=M-1
// A=M
// D=M
// @manual$File$label
// D;JNE
func (gen *CodeGenerator) generateIfGoto(label string) {
	gen.write("@SP\nM=M-1\nA=M\nD=M\n@%s\nD;JNE\n", gen.manualLabel(label))
}

// generateFunction zeroes the k locals with a loop counting in R13, then
// moves SP past them:
// (call$f)
// @R13
// M=0
// (auto$File$n)
// @R13
// D=M
// @k
// D=D-A
// @auto$File$n+1
// D;JEQ
// @R13
// D=M
// M=M+1
// @LCL
// A=M+D
// M=0
// @auto$File$n
// 0;JMP
// (auto$File$n+1)
// @k
// D=A
// @LCL
// D=M+D
// @SP
// M=D
func (gen *CodeGenerator) generateFunction(name string, locals int) {
	loop, end := gen.autoLabel(), gen.autoLabel()
	gen.write("(%s)\n@%s\nM=0\n", functionLabel(name), scratchCell)
	gen.write("(%[1]s)\n@%[2]s\nD=M\n@%[3]d\nD=D-A\n@%[4]s\nD;JEQ\n", loop, scratchCell, locals, end)
	gen.write("@%[1]s\nD=M\nM=M+1\n@LCL\nA=M+D\nM=0\n@%[2]s\n0;JMP\n", scratchCell, loop)
	gen.write("(%s)\n@%d\nD=A\n@LCL\nD=M+D\n@SP\nM=D\n", end, locals)
}

// generateCall pushes the return address and the caller's frame, then
// repositions ARG and LCL for the callee:
// @auto$File$n
// D=A
// @SP
// M=M+1
// A=M-1
// M=D
// (the same for LCL, ARG, THIS, THAT with D=M)
// @SP
// D=M
// @LCL
// M=D
// @<n+5>
// D=D-A
// @ARG
// M=D
// @call$f
// 0;JMP
// (auto$File$n)
func (gen *CodeGenerator) generateCall(name string, args int) {
	returnLabel := gen.autoLabel()
	gen.write("@%s\nD=A\n@SP\nM=M+1\nA=M-1\nM=D\n", returnLabel)
	for _, pointer := range []string{"LCL", "ARG", "THIS", "THAT"} {
		gen.write("@%s\nD=M\n@SP\nM=M+1\nA=M-1\nM=D\n", pointer)
	}
	gen.write("@SP\nD=M\n@LCL\nM=D\n@%d\nD=D-A\n@ARG\nM=D\n", args+5)
	gen.write("@%s\n0;JMP\n(%s)\n", functionLabel(name), returnLabel)
}

// generateReturn saves the return address before the return value may
// overwrite it (a call without arguments puts ARG on that very cell):
// @5
// D=A
// @LCL
// A=M-D
// D=M
// @R13
// M=D
// @SP
// A=M-1
// D=M
// @ARG
// A=M
// M=D
// D=A+1
// @SP
// M=D
// then THAT, THIS, ARG and LCL are restored from LCL-1 .. LCL-4, and
// @R13
// A=M
// 0;JMP
func (gen *CodeGenerator) generateReturn() {
	gen.write("@5\nD=A\n@LCL\nA=M-D\nD=M\n@%s\nM=D\n", scratchCell)
	gen.write("@SP\nA=M-1\nD=M\n@ARG\nA=M\nM=D\nD=A+1\n@SP\nM=D\n")
	gen.write("@LCL\nA=M-1\nD=M\n@THAT\nM=D\n")
	gen.write("@LCL\nA=M-1\nA=A-1\nD=M\n@THIS\nM=D\n")
	gen.write("@3\nD=A\n@LCL\nA=M-D\nD=M\n@ARG\nM=D\n")
	gen.write("@4\nD=A\n@LCL\nA=M-D\nD=M\n@LCL\nM=D\n")
	gen.write("@%s\nA=M\n0;JMP\n", scratchCell)
}
