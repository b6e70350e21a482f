// Package hackcpu executes hack machine code. It has no screen or keyboard,
// memory mapped devices are plain RAM.
package hackcpu

import "fmt"

const (
	MemorySize = 32 * 1024

	cInstruction = 0x8000
	aBit         = 0x1000
)

// CPU is a hack computer: a ROM of instructions, a RAM of words and the A, D
// and PC registers.
type CPU struct {
	ROM []uint16
	RAM []int16
	A   int16
	D   int16
	PC  int
}

func New(words []uint16) *CPU {
	rom := make([]uint16, MemorySize)
	copy(rom, words)
	return &CPU{ROM: rom, RAM: make([]int16, MemorySize)}
}

// alu computes the hack ALU on x and y. The control bits are zx nx zy ny f no,
// most significant first.
func alu(x, y int16, control uint16) int16 {
	if control&0x20 != 0 {
		x = 0
	}
	if control&0x10 != 0 {
		x = ^x
	}
	if control&0x08 != 0 {
		y = 0
	}
	if control&0x04 != 0 {
		y = ^y
	}
	var out int16
	if control&0x02 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if control&0x01 != 0 {
		out = ^out
	}
	return out
}

func address(a int16) int {
	return int(uint16(a)) % MemorySize
}

// Step executes the instruction at PC.
func (cpu *CPU) Step() {
	inst := cpu.ROM[cpu.PC%MemorySize]
	if inst&cInstruction == 0 {
		cpu.A = int16(inst)
		cpu.PC++
		return
	}
	y := cpu.A
	if inst&aBit != 0 {
		y = cpu.RAM[address(cpu.A)]
	}
	out := alu(cpu.D, y, (inst>>6)&0x3f)
	jump := inst & 0x7
	target := int(uint16(cpu.A))
	// M is written through the old A.
	if inst&0x08 != 0 {
		cpu.RAM[address(cpu.A)] = out
	}
	if inst&0x10 != 0 {
		cpu.D = out
	}
	if inst&0x20 != 0 {
		cpu.A = out
	}
	if (jump&0x4 != 0 && out < 0) || (jump&0x2 != 0 && out == 0) || (jump&0x1 != 0 && out > 0) {
		cpu.PC = target
		return
	}
	cpu.PC++
}

// RunUntil steps until PC reaches pc, failing after maxSteps instructions.
func (cpu *CPU) RunUntil(pc int, maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		if cpu.PC == pc {
			return nil
		}
		cpu.Step()
	}
	if cpu.PC == pc {
		return nil
	}
	return fmt.Errorf("pc %d not reached after %d steps, stopped at %d", pc, maxSteps, cpu.PC)
}
