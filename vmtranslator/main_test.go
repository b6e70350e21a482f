package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nand2tetris_toolchain/internal/vmtranslator"
)

func TestTranslatorConfig(t *testing.T) {
	for _, initSP := range []bool{true, false} {
		cfg := translatorConfig(initSP)
		assert.Equal(t, initSP, cfg.InitStackPointer)
		assert.True(t, cfg.WriteHalt)

		translator := vmtranslator.NewVMTranslator(cfg)
		require.Nil(t, translator.TranslateFile("Test.vm", strings.NewReader("push constant 1\n")))
		asm := translator.String()
		assert.Equal(t, initSP, strings.Contains(asm, "@256\nD=A\n@SP\nM=D\n"))
		assert.True(t, strings.HasSuffix(asm, "(HaltInfiniteLoop)\n@HaltInfiniteLoop\n0;JMP\n"))
	}
}
