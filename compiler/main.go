package main

import (
	"flag"
	"log"

	"nand2tetris_toolchain/internal/jackcompiler"
)

var (
	path    = flag.String("path", ".", "the jack file or the directory of jack files needs to be compiled")
	output  = flag.String("o", "", "the vm file path when a single jack file is compiled")
	tokens  = flag.Bool("tokens", false, "whether write the token markup <Name>T.xml")
	tree    = flag.Bool("tree", false, "whether write the parse tree markup <Name>.xml")
	verbose = flag.Bool("v", false, "whether print the written vm files")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("[Compiler]: ")
	outputs, err := jackcompiler.CompilePath(*path, jackcompiler.PathOptions{Output: *output, Tokens: *tokens, Tree: *tree})
	if err != nil {
		log.Fatalf("failed to compile: %s, err: %v", *path, err)
	}
	if *verbose {
		for _, out := range outputs {
			log.Println("written", out)
		}
	}
}
