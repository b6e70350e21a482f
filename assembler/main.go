package main

import (
	"flag"
	"log"
	"os"

	"nand2tetris_toolchain/internal/assembler"
)

// a simple program accepts a input assemble code file supported by hack assemble language and transforms
// the content to the corresponding hack machine language.

var (
	inputPath  = flag.String("i", "./input.asm", "the input hack assemble code file path")
	outputPath = flag.String("o", "./output.hack", "the output hack binary code file path")
	verbose    = flag.Bool("v", false, "whether print all transformed binary code")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("[Assembler]: ")
	asm := assembler.CreateAssembler()
	f, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("failed to open file: %s, err: %v", *inputPath, err)
	}
	defer f.Close()
	if _, err = asm.Parse(f); err != nil {
		log.Fatalf("failed to parse file, err: %v", err)
	}
	if *verbose {
		asm.WriteCommands(os.Stdout)
	}
	out, err := os.Create(*outputPath)
	if err != nil {
		log.Fatalf("failed to create file: %s, err: %v", *outputPath, err)
	}
	if err = asm.WriteMachineCode(out); err == nil {
		err = out.Close()
	}
	if err != nil {
		log.Fatalf("failed to save to path: %s, err: %v", *outputPath, err)
	}
}
