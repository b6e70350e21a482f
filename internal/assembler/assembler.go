package assembler

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// A simple assembler based on descent-parser, which can be used to parse hack assemble code and transform them into the
// hack binary code, aka the instruction supported by hack CPU.

// The most ambiguous instruction is the A instruction, A instruction is normally declared as @something, but it turns out
// it has many types:
// * @10(decimal value), put this value to the A register.
// * @label, put the instruction address of label to A register, note that the label can be used before declared.
// * @R[0-15], this is the predefined 16 registers R0-R15, each value is 0-15, and then put to A register.
// * @Variable, declare a variable by setting it's address (if not declared), and then put the data memory address of this variable to A register.

var predefinedVariables = map[string]int{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"R0":     0,
	"R1":     1,
	"R2":     2,
	"R3":     3,
	"R4":     4,
	"R5":     5,
	"R6":     6,
	"R7":     7,
	"R8":     8,
	"R9":     9,
	"R10":    10,
	"R11":    11,
	"R12":    12,
	"R13":    13,
	"R14":    14,
	"R15":    15,
	"SCREEN": 16384,
	"KBD":    24576,
}

// comp bits are a followed by zx nx zy ny f no.
var cCommandCompMap = map[string]uint16{
	"0":   0x2a,
	"1":   0x3f,
	"-1":  0x3a,
	"D":   0x0c,
	"A":   0x30,
	"!D":  0x0d,
	"!A":  0x31,
	"-D":  0x0f,
	"-A":  0x33,
	"D+1": 0x1f,
	"1+D": 0x1f,
	"A+1": 0x37,
	"1+A": 0x37,
	"D-1": 0x0e,
	"A-1": 0x32,
	"D+A": 0x02,
	"A+D": 0x02,
	"D-A": 0x13,
	"A-D": 0x07,
	"D&A": 0x00,
	"A&D": 0x00,
	"D|A": 0x15,
	"A|D": 0x15,
	"M":   0x70,
	"!M":  0x71,
	"-M":  0x73,
	"M+1": 0x77,
	"1+M": 0x77,
	"M-1": 0x72,
	"D+M": 0x42,
	"M+D": 0x42,
	"D-M": 0x53,
	"M-D": 0x47,
	"D&M": 0x40,
	"M&D": 0x40,
	"D|M": 0x55,
	"M|D": 0x55,
}

var cCommandDestMap = map[string]uint16{
	"M":   1,
	"D":   2,
	"MD":  3,
	"DM":  3,
	"A":   4,
	"AM":  5,
	"MA":  5,
	"AD":  6,
	"DA":  6,
	"AMD": 7,
	"ADM": 7,
	"DAM": 7,
	"DMA": 7,
	"MAD": 7,
	"MDA": 7,
}

var cCommandJumpMap = map[string]uint16{
	"JGT": 1,
	"JEQ": 2,
	"JGE": 3,
	"JLT": 4,
	"JNE": 5,
	"JLE": 6,
	"JMP": 7,
}

const (
	variableBaseAddr = 16
	cCommandPrefix   = 0x7 << 13
)

type Assembler struct {
	line                   int
	currentInstructionAddr int
	labelLocationMap       map[string]int
	variableAddrMap        map[string]int
	symbolLocations        []symbolLocation
	commands               []Command
}

type symbolLocation struct {
	symbol string
	index  int
}

func CreateAssembler() *Assembler {
	return &Assembler{
		line:             1,
		labelLocationMap: map[string]int{},
		variableAddrMap:  map[string]int{},
	}
}

type CommandType int

const (
	ACommand_Constant CommandType = iota
	ACommand_Label
	ACommand_Variable
	CCommand
)

// Command is one machine instruction and the source line it came from.
type Command struct {
	Tp              CommandType
	Code            uint16
	Line            int
	OriginalContent string
}

func (command Command) String() string {
	return fmt.Sprintf("Command: {Tp: %d, Code: %s, Line: %d, OriginalContent: %s}", command.Tp,
		formatCode(command.Code), command.Line, command.OriginalContent)
}

// Program is the result of assembling a whole source.
type Program struct {
	Words     []uint16
	Labels    map[string]int
	Variables map[string]int
}

// Parse parse the input source which is a sequence of assembler code, and transfer
// them into a sequence of binary code supported by hack computer of nand2tetries. The returned
// value is a command array where each element is a machine instruction.
func (asm *Assembler) Parse(rd io.Reader) ([]Command, error) {
	bfReader := bufio.NewReader(rd)
	for {
		line, err := bfReader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		// The last line may have no line break.
		if len(line) > 0 {
			if trimmed, hasRemainCharacter := asm.trimLine(line); hasRemainCharacter {
				if transformErr := asm.transformLine(trimmed); transformErr != nil {
					return nil, transformErr
				}
			}
			asm.line++
		}
		if err == io.EOF {
			asm.updateLabelOrVariableMap()
			return asm.commands, nil
		}
	}
}

// Program returns the words of the parsed source together with the resolved
// symbols.
func (asm *Assembler) Program() *Program {
	words := make([]uint16, len(asm.commands))
	for i, command := range asm.commands {
		words[i] = command.Code
	}
	return &Program{Words: words, Labels: asm.labelLocationMap, Variables: asm.variableAddrMap}
}

// Assemble parses the whole source and returns the resulting program.
func Assemble(rd io.Reader) (*Program, error) {
	asm := CreateAssembler()
	if _, err := asm.Parse(rd); err != nil {
		return nil, err
	}
	return asm.Program(), nil
}

// updateLabelOrVariableMap updates those @label or @variable command. because those commands points to
// a memory address which we don't know before all labels declaration are parsed. we parse those commands at
// last.
func (asm *Assembler) updateLabelOrVariableMap() {
	for _, location := range asm.symbolLocations {
		symbol := location.symbol
		command := &asm.commands[location.index]
		// Try to parse as if it's a label reference.
		labelAddr, exist := asm.labelLocationMap[symbol]
		if exist {
			command.Tp = ACommand_Label
			command.Code = uint16(labelAddr)
			continue
		}
		// Should be a variable, allocated on first use.
		variableMemAddr, exist := asm.variableAddrMap[symbol]
		if !exist {
			variableMemAddr = variableBaseAddr + len(asm.variableAddrMap)
			asm.variableAddrMap[symbol] = variableMemAddr
		}
		command.Tp = ACommand_Variable
		command.Code = uint16(variableMemAddr)
	}
}

// trimLine will remove space from line, also remove comments if it has, then return whether those line has other characters after trimed.
func (asm *Assembler) trimLine(line []byte) ([]byte, bool) {
	line = bytes.TrimSpace(line)
	index := bytes.Index(line, []byte("//"))
	if index != -1 {
		line = line[:index]
		line = bytes.TrimSpace(line)
	}
	if len(line) == 0 {
		return nil, false
	}
	return line, true
}

func (asm *Assembler) transformLine(line []byte) error {
	switch line[0] {
	case '@':
		return asm.transformAOrVariableCommand(line)
	case '(':
		return asm.transformLabelCommand(line)
	case '/':
		return asm.transformComment(line)
	default:
		return asm.transformCCommand(line)
	}
}

var variableOrLabelFormat = regexp.MustCompile("^[a-zA-Z_.$:][0-9a-zA-Z_.$:]*$")

// transformAOrVariableCommand after we recognize the current command is an A command or Variable command.
// A instruction has many types:
// * @10(decimal value), put this value to the A register.
// * @label, put the instruction address of label to A register, note that the label can be used before declared.
// * @R[0-15], this is the predefined 16 registers R0-R15, each value is 0-15, and then put to A register.
// * @Variable, declare a variable by setting it's address (if not declared), and then put the data memory address of
//   this variable to A register.
func (asm *Assembler) transformAOrVariableCommand(line []byte) error {
	originalContent := line
	line = line[1:]
	if len(line) == 0 {
		return asm.makeSyntaxErr("empty A command")
	}
	if line[0] >= '0' && line[0] <= '9' {
		return asm.transformADecimalCommand(originalContent)
	}
	// Try to parse a predefined symbol
	addr, exist := predefinedVariables[string(line)]
	if exist {
		asm.appendCommand(ACommand_Variable, uint16(addr), originalContent)
		return nil
	}
	if !variableOrLabelFormat.Match(line) {
		return asm.makeSyntaxErr("wrong variable or label format")
	}
	// A placeholder until every label is known, a symbol may be referenced several times.
	asm.symbolLocations = append(asm.symbolLocations, symbolLocation{
		symbol: string(line),
		index:  asm.currentInstructionAddr,
	})
	asm.appendCommand(ACommand_Label, 0, originalContent)
	return nil
}

func (asm *Assembler) transformADecimalCommand(line []byte) error {
	value, err := strconv.Atoi(string(line[1:]))
	if err != nil || value > 32767 {
		return asm.makeSyntaxErr("wrong decimal value format")
	}
	asm.appendCommand(ACommand_Constant, uint16(value), line)
	return nil
}

// transformLabelCommand after we recognize the current command is a label command.
// A label command is like '(label)', after we parse a label command, we remember its instruction loc
// by putting it to `asm.labelLocationMap`.
func (asm *Assembler) transformLabelCommand(line []byte) error {
	loc := bytes.IndexByte(line, ')')
	// We dont allow a label contains space. for example, ( hello ) is not allowed.
	if loc != len(line)-1 || !variableOrLabelFormat.Match(line[1:loc]) {
		return asm.makeSyntaxErr("wrong label format")
	}
	label := string(line[1:loc])
	if _, exist := asm.labelLocationMap[label]; exist {
		return asm.makeSyntaxErr("found duplicate label " + label)
	}
	// Note: a label is not an instruction, the address is not advanced.
	asm.labelLocationMap[label] = asm.currentInstructionAddr
	return nil
}

func (asm *Assembler) transformComment(line []byte) error {
	if len(line) < 2 || line[1] != '/' {
		return asm.makeSyntaxErr("comment format not correct")
	}
	return nil
}

// transformCCommand after we recognize the current command is a C command.
// A C command supports: dest=comp;jump
func (asm *Assembler) transformCCommand(line []byte) error {
	originalContent := line
	destCode, line, err := asm.parseCCommandDestCode(line)
	if err != nil {
		return err
	}
	jumpCode, line, err := asm.parseCCommandJumpCode(line)
	if err != nil {
		return err
	}
	compCode, err := asm.parseCCommandCompCode(line)
	if err != nil {
		return err
	}
	asm.appendCommand(CCommand, cCommandPrefix|compCode<<6|destCode<<3|jumpCode, originalContent)
	return nil
}

func (asm *Assembler) appendCommand(tp CommandType, code uint16, originalContent []byte) {
	asm.commands = append(asm.commands, Command{
		Tp:              tp,
		Code:            code,
		Line:            asm.line,
		OriginalContent: string(originalContent),
	})
	asm.currentInstructionAddr++
}

func (asm *Assembler) parseCCommandDestCode(line []byte) (uint16, []byte, error) {
	dest := bytes.IndexByte(line, '=')
	if dest == -1 {
		return 0, line, nil
	}
	destCode, exist := cCommandDestMap[string(line[0:dest])]
	if !exist {
		return 0, nil, asm.makeSyntaxErr(fmt.Sprintf("wrong c command of dest code format near %s", string(line)))
	}
	return destCode, line[dest+1:], nil
}

func (asm *Assembler) parseCCommandJumpCode(line []byte) (uint16, []byte, error) {
	comp := bytes.IndexByte(line, ';')
	if comp == -1 {
		return 0, line, nil
	}
	jumpCode, exist := cCommandJumpMap[string(line[comp+1:])]
	if !exist {
		return 0, nil, asm.makeSyntaxErr(fmt.Sprintf("wrong c command of jump code format near %s", string(line)))
	}
	return jumpCode, line[:comp], nil
}

func (asm *Assembler) parseCCommandCompCode(line []byte) (uint16, error) {
	compCode, exist := cCommandCompMap[string(line)]
	if !exist {
		return 0, asm.makeSyntaxErr(fmt.Sprintf("wrong c command of comp code format near %s", string(line)))
	}
	return compCode, nil
}

// formatCode renders a word as 16 binary digits.
func formatCode(code uint16) string {
	return fmt.Sprintf("%016b", code)
}

func (asm *Assembler) makeSyntaxErr(msg string) error {
	return fmt.Errorf("syntax err at line %d: %s", asm.line, msg)
}

// WriteCommands writes a readable dump of every parsed command.
func (asm *Assembler) WriteCommands(w io.Writer) error {
	bf := bufio.NewWriter(w)
	for _, command := range asm.commands {
		fmt.Fprintf(bf, "%s\n", command)
	}
	return bf.Flush()
}

// WriteMachineCode writes one 16 digit binary word per line, the .hack format.
func (asm *Assembler) WriteMachineCode(w io.Writer) error {
	bf := bufio.NewWriter(w)
	for _, command := range asm.commands {
		fmt.Fprintf(bf, "%s\n", formatCode(command.Code))
	}
	return bf.Flush()
}
