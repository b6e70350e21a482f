package vmtranslator

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	haltLabel     = "HaltInfiniteLoop"
	bootstrapLCL  = 261
	initStackBase = 256
	entryFunction = "Sys.init"
)

// Config controls the boilerplate written around a standalone file. A folder
// is always bootstrapped through Sys.init and gets no per file boilerplate.
type Config struct {
	// InitStackPointer writes SP=256 before the code of a standalone file.
	InitStackPointer bool
	// WriteHalt ends a standalone file with an infinite loop.
	WriteHalt bool
}

func DefaultConfig() Config {
	return Config{InitStackPointer: true, WriteHalt: true}
}

// SourceFile is one vm file of a folder, Name qualifies its statics and
// labels.
type SourceFile struct {
	Name   string
	Reader io.Reader
}

// VMTranslator accumulates the assembly of one translation unit, either a
// single file or a folder.
type VMTranslator struct {
	cfg    Config
	output bytes.Buffer
}

func NewVMTranslator(cfg Config) *VMTranslator {
	return &VMTranslator{cfg: cfg}
}

// TranslateFile translates a standalone vm file.
// @256              // when InitStackPointer
// D=A
// @SP
// M=D
// <code>
// (HaltInfiniteLoop) // when WriteHalt
// @HaltInfiniteLoop
// 0;JMP
func (translator *VMTranslator) TranslateFile(name string, rd io.Reader) error {
	if translator.cfg.InitStackPointer {
		fmt.Fprintf(&translator.output, "// bootstrap\n@%d\nD=A\n@SP\nM=D\n", initStackBase)
	}
	if err := translator.translate(name, rd); err != nil {
		return err
	}
	if translator.cfg.WriteHalt {
		fmt.Fprintf(&translator.output, "// halt\n(%[1]s)\n@%[1]s\n0;JMP\n", haltLabel)
	}
	return nil
}

// TranslateFiles translates the files of a folder in the given order behind
// a bootstrap that enters Sys.init with LCL=261. Sys.init's own prologue
// places SP above its locals.
// @261
// D=A
// @LCL
// M=D
// @call$Sys.init
// 0;JMP
func (translator *VMTranslator) TranslateFiles(files []SourceFile) error {
	fmt.Fprintf(&translator.output, "// bootstrap\n@%d\nD=A\n@LCL\nM=D\n@%s\n0;JMP\n",
		bootstrapLCL, functionLabel(entryFunction))
	for _, f := range files {
		if err := translator.translate(f.Name, f.Reader); err != nil {
			return err
		}
	}
	return nil
}

// TranslatePath translates a single .vm file standalone, or every .vm file of
// a directory (not recursive, sorted by name) as a folder.
func (translator *VMTranslator) TranslatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return translator.TranslateFile(f.Name(), f)
	}
	names, err := listVMFiles(path)
	if err != nil {
		return err
	}
	files := make([]SourceFile, 0, len(names))
	for _, name := range names {
		f, err := os.Open(filepath.Join(path, name))
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		defer f.Close()
		files = append(files, SourceFile{Name: name, Reader: f})
	}
	return translator.TranslateFiles(files)
}

func listVMFiles(dir string) ([]string, error) {
	infos, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var names []string
	for _, info := range infos {
		// Ignore sub path and non vm files.
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".vm") {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (translator *VMTranslator) translate(name string, rd io.Reader) error {
	parser := NewInstructionParser(name, NewLexer(name, rd))
	gen := NewCodeGenerator(&translator.output, name)
	for {
		inst, err := parser.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := gen.Generate(inst); err != nil {
			return err
		}
	}
}

func (translator *VMTranslator) String() string {
	return translator.output.String()
}

func (translator *VMTranslator) WriteTo(w io.Writer) (int64, error) {
	return translator.output.WriteTo(w)
}

func (translator *VMTranslator) SaveTo(path string) error {
	return ioutil.WriteFile(path, translator.output.Bytes(), 0666)
}
