package hackcpu

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nand2tetris_toolchain/internal/assembler"
)

func TestALU(t *testing.T) {
	testData := []struct {
		control uint16
		x, y    int16
		out     int16
	}{
		{0x2a, 5, 9, 0},
		{0x3f, 5, 9, 1},
		{0x3a, 5, 9, -1},
		{0x0c, 5, 9, 5},
		{0x30, 5, 9, 9},
		{0x0d, 5, 9, ^int16(5)},
		{0x0f, 5, 9, -5},
		{0x33, 5, 9, -9},
		{0x1f, 5, 9, 6},
		{0x37, 5, 9, 10},
		{0x0e, 5, 9, 4},
		{0x32, 5, 9, 8},
		{0x02, 5, 9, 14},
		{0x13, 5, 9, -4},
		{0x07, 5, 9, 4},
		{0x00, 5, 9, 1},
		{0x15, 5, 9, 13},
	}
	for _, data := range testData {
		assert.Equal(t, data.out, alu(data.x, data.y, data.control), "control %#x", data.control)
	}
}

func run(t *testing.T, source string, steps int) *CPU {
	program, err := assembler.Assemble(strings.NewReader(source))
	require.Nil(t, err)
	cpu := New(program.Words)
	require.Nil(t, cpu.RunUntil(program.Labels["END"], steps))
	return cpu
}

func TestMultiply(t *testing.T) {
	// R2 = R0 * R1 by repeated addition.
	source := `
@6
D=A
@R0
M=D
@7
D=A
@R1
M=D
@R2
M=0
(LOOP)
@R1
D=M
@END
D;JEQ
@R0
D=M
@R2
M=M+D
@R1
M=M-1
@LOOP
0;JMP
(END)
@END
0;JMP
`
	cpu := run(t, source, 1000)
	assert.Equal(t, int16(42), cpu.RAM[2])
	assert.Equal(t, int16(0), cpu.RAM[1])
}

func TestMemoryWriteUsesOldA(t *testing.T) {
	source := `
@100
M=A
@200
AM=A+1
(END)
@END
0;JMP
`
	cpu := run(t, source, 100)
	assert.Equal(t, int16(100), cpu.RAM[100])
	assert.Equal(t, int16(201), cpu.RAM[200])
	assert.Equal(t, int16(0), cpu.RAM[201])
}

func TestJumps(t *testing.T) {
	testData := []struct {
		value int
		jump  string
		taken bool
	}{
		{-1, "JLT", true},
		{0, "JLT", false},
		{0, "JEQ", true},
		{1, "JGT", true},
		{0, "JGE", true},
		{1, "JLE", false},
		{1, "JNE", true},
		{0, "JNE", false},
	}
	for _, data := range testData {
		value := data.value
		if value < 0 {
			value = -value
		}
		source := "@" + strconv.Itoa(value) + "\nD=A\n"
		if data.value < 0 {
			source += "D=-D\n"
		}
		source += "@TAKEN\nD;" + data.jump + "\n@R0\nM=0\n@END\n0;JMP\n(TAKEN)\n@R0\nM=1\n(END)\n@END\n0;JMP\n"
		cpu := run(t, source, 100)
		assert.Equal(t, data.taken, cpu.RAM[0] == 1, "%d %s", data.value, data.jump)
	}
}

func TestRunUntilGivesUp(t *testing.T) {
	cpu := New([]uint16{0x0000, 0xea87}) // @0, 0;JMP
	assert.NotNil(t, cpu.RunUntil(5, 50))
}
