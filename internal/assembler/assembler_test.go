package assembler

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCode(t *testing.T) {
	testData := []struct {
		word uint16
		code string
	}{
		{0, "0000000000000000"},
		{1, "0000000000000001"},
		{2, "0000000000000010"},
		{0xffff, "1111111111111111"},
		{0xfffe, "1111111111111110"},
	}
	for _, data := range testData {
		assert.Equal(t, data.code, formatCode(data.word))
	}
}

func TestTransformComment(t *testing.T) {
	asm := CreateAssembler()
	assert.NotNil(t, asm.transformComment([]byte("/hello")))
	assert.Nil(t, asm.transformComment([]byte("//hhi")))
	assert.Nil(t, asm.transformComment([]byte("///")))
}

func TestTransformCCommand(t *testing.T) {
	asm := CreateAssembler()
	type code struct {
		assembleCode string
		binaryCode   string
	}
	dest := []code{
		{assembleCode: "", binaryCode: "000"},
		{assembleCode: "M", binaryCode: "001"},
		{assembleCode: "D", binaryCode: "010"},
		{assembleCode: "MD", binaryCode: "011"},
		{assembleCode: "A", binaryCode: "100"},
		{assembleCode: "AM", binaryCode: "101"},
		{assembleCode: "AD", binaryCode: "110"},
		{assembleCode: "AMD", binaryCode: "111"},
	}
	comp := []code{
		{assembleCode: "0", binaryCode: "0101010"},
		{assembleCode: "1", binaryCode: "0111111"},
		{assembleCode: "-1", binaryCode: "0111010"},
		{assembleCode: "D", binaryCode: "0001100"},
		{assembleCode: "A", binaryCode: "0110000"},
		{assembleCode: "!D", binaryCode: "0001101"},
		{assembleCode: "!A", binaryCode: "0110001"},
		{assembleCode: "-D", binaryCode: "0001111"},
		{assembleCode: "-A", binaryCode: "0110011"},
		{assembleCode: "D+1", binaryCode: "0011111"},
		{assembleCode: "A+1", binaryCode: "0110111"},
		{assembleCode: "D-1", binaryCode: "0001110"},
		{assembleCode: "A-1", binaryCode: "0110010"},
		{assembleCode: "D+A", binaryCode: "0000010"},
		{assembleCode: "D-A", binaryCode: "0010011"},
		{assembleCode: "A-D", binaryCode: "0000111"},
		{assembleCode: "D&A", binaryCode: "0000000"},
		{assembleCode: "D|A", binaryCode: "0010101"},

		{assembleCode: "M", binaryCode: "1110000"},
		{assembleCode: "!M", binaryCode: "1110001"},
		{assembleCode: "-M", binaryCode: "1110011"},
		{assembleCode: "M+1", binaryCode: "1110111"},
		{assembleCode: "M-1", binaryCode: "1110010"},
		{assembleCode: "D+M", binaryCode: "1000010"},
		{assembleCode: "M+D", binaryCode: "1000010"},
		{assembleCode: "D-M", binaryCode: "1010011"},
		{assembleCode: "M-D", binaryCode: "1000111"},
		{assembleCode: "D&M", binaryCode: "1000000"},
		{assembleCode: "D|M", binaryCode: "1010101"},
	}
	jump := []code{
		{assembleCode: "", binaryCode: "000"},
		{assembleCode: "JGT", binaryCode: "001"},
		{assembleCode: "JEQ", binaryCode: "010"},
		{assembleCode: "JGE", binaryCode: "011"},
		{assembleCode: "JLT", binaryCode: "100"},
		{assembleCode: "JNE", binaryCode: "101"},
		{assembleCode: "JLE", binaryCode: "110"},
		{assembleCode: "JMP", binaryCode: "111"},
	}
	for _, destCode := range dest {
		line := destCode.assembleCode
		if line != "" {
			line += "="
		}
		for _, compCode := range comp {
			for _, jumpCode := range jump {
				instruction := line + compCode.assembleCode
				if jumpCode.assembleCode != "" {
					instruction += ";" + jumpCode.assembleCode
				}
				require.Nil(t, asm.transformCCommand([]byte(instruction)), instruction)
				last := asm.commands[len(asm.commands)-1]
				assert.Equal(t, CCommand, last.Tp, instruction)
				assert.Equal(t, "111"+compCode.binaryCode+destCode.binaryCode+jumpCode.binaryCode,
					formatCode(last.Code), instruction)
			}
		}
	}
	assert.NotNil(t, asm.transformCCommand([]byte("X=D")))
	assert.NotNil(t, asm.transformCCommand([]byte("D=D*A")))
	assert.NotNil(t, asm.transformCCommand([]byte("0;JXX")))
}

func TestTransformLabelCommand(t *testing.T) {
	asm := CreateAssembler()
	assert.NotNil(t, asm.transformLabelCommand([]byte("(5shsl)")))
	assert.NotNil(t, asm.transformLabelCommand([]byte("(a b)")))
	line := []byte("(hel4lo._)")
	assert.Nil(t, asm.transformLabelCommand(line))
	assert.NotNil(t, asm.transformLabelCommand(line))
	assert.Nil(t, asm.transformLabelCommand([]byte("(manual$Main$LOOP)")))
}

func TestTransformADecimalCommand(t *testing.T) {
	asm := CreateAssembler()
	assert.Nil(t, asm.transformADecimalCommand([]byte("@10")))
	assert.Equal(t, ACommand_Constant, asm.commands[0].Tp)
	assert.Equal(t, "0000000000001010", formatCode(asm.commands[0].Code))
	assert.Nil(t, asm.transformADecimalCommand([]byte("@32767")))
	assert.NotNil(t, asm.transformADecimalCommand([]byte("@32768")))
	assert.NotNil(t, asm.transformADecimalCommand([]byte("@1x")))
}

func TestAssembler_IntegrationTest(t *testing.T) {
	contents := `
// set M[11] = 10 + M[11]
@10
D=A
@11
M=M+D
@2
D=A // welcome
@i
M=D
@10
D=A
@j
M=D


// Loop M[11] = M[11] - 2 until M[11] < 0
(LOOP)
@i
D=A
@11
M=M-D // hello
@11
D=M
@END
D;JLT
@LOOP
0;JMP

(END)
@END
0;JMP`
	asm := CreateAssembler()
	commands, err := asm.Parse(strings.NewReader(contents))
	require.Nil(t, err)
	// the last line has no line break and must still be assembled.
	require.Len(t, commands, 24)
	program := asm.Program()
	assert.Equal(t, 12, program.Labels["LOOP"])
	assert.Equal(t, 22, program.Labels["END"])
	assert.Equal(t, 16, program.Variables["i"])
	assert.Equal(t, 17, program.Variables["j"])
	assert.Equal(t, uint16(16), program.Words[6])
	assert.Equal(t, uint16(22), program.Words[18])
	assert.Equal(t, uint16(12), program.Words[20])

	bf := bytes.Buffer{}
	require.Nil(t, asm.WriteMachineCode(&bf))
	lines := strings.Split(strings.TrimSpace(bf.String()), "\n")
	require.Len(t, lines, 24)
	for i, line := range lines {
		word, err := strconv.ParseUint(line, 2, 16)
		require.Nil(t, err)
		assert.Equal(t, program.Words[i], uint16(word))
	}
}

func TestAssembleErrors(t *testing.T) {
	testData := []string{
		"(LOOP)\n(LOOP)\n",
		"@\n",
		"@1abc\n",
		"D=Q\n",
		"/ single slash\n",
	}
	for _, content := range testData {
		_, err := Assemble(strings.NewReader(content))
		assert.NotNil(t, err, content)
	}
}

func TestPredefinedSymbols(t *testing.T) {
	program, err := Assemble(strings.NewReader("@SP\n@LCL\n@ARG\n@THIS\n@THAT\n@R13\n@SCREEN\n@KBD"))
	require.Nil(t, err)
	assert.Equal(t, []uint16{0, 1, 2, 3, 4, 13, 16384, 24576}, program.Words)
	assert.Empty(t, program.Variables)
}
