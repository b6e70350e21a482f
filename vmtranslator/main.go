package main

import (
	"flag"
	"log"
	"os"

	"nand2tetris_toolchain/internal/vmtranslator"
)

// A simple program to translate hack vm codes to hack assembler. A directory
// is translated as one program entered through Sys.init.

var (
	path    = flag.String("path", ".", "the vm file or the directory of vm files")
	output  = flag.String("o", "./output.asm", "the saved path")
	verbose = flag.Bool("v", false, "whether print translate result")
	// Standalone files of chapter 7 need SP initialized.
	initSP = flag.Bool("sp", true, "whether a single file sets SP=256")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("[Translator]: ")
	translator := vmtranslator.NewVMTranslator(translatorConfig(*initSP))
	if err := translator.TranslatePath(*path); err != nil {
		log.Fatalf("failed to translate program: %s, err: %v", *path, err)
	}
	if *verbose {
		translator.WriteTo(os.Stdout)
	}
	if err := translator.SaveTo(*output); err != nil {
		log.Fatalf("failed to save to path: %s, err: %v", *output, err)
	}
}

// translatorConfig always ends a single file with the halt loop, only the SP
// initialization is optional.
func translatorConfig(initSP bool) vmtranslator.Config {
	cfg := vmtranslator.DefaultConfig()
	cfg.InitStackPointer = initSP
	return cfg
}
