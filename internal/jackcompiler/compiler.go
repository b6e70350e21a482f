package jackcompiler

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Options selects the intermediate artifacts to dump. A nil writer skips the
// artifact.
type Options struct {
	// Tokens receives the token stream as <tokens> markup.
	Tokens io.Writer
	// Tree receives the parse tree markup.
	Tree io.Writer
}

// Compile translates one jack class read from rd into vm code written to w.
// The stages run one after the other over in memory tag buffers.
func Compile(rd io.Reader, w io.Writer, opts Options) error {
	var tokens TagSource = NewTokenizer(rd)
	if opts.Tokens != nil {
		buffer := &TagBuffer{}
		buffer.Write(openTag(TokensNT, 0))
		if err := Copy(buffer, tokens); err != nil {
			return err
		}
		buffer.Write(closeTag(TokensNT, 0))
		if err := WriteXML(opts.Tokens, buffer); err != nil {
			return fmt.Errorf("write tokens: %w", err)
		}
		// the parser reads the tokens without the wrapping tags.
		tokens = &TagBuffer{tags: buffer.tags[1 : buffer.Len()-1]}
	}
	tree := &TagBuffer{}
	if err := NewParser(tokens, tree).ParseClass(); err != nil {
		return err
	}
	if opts.Tree != nil {
		if err := WriteXML(opts.Tree, tree); err != nil {
			return fmt.Errorf("write tree: %w", err)
		}
		tree.Rewind()
	}
	return NewCodeGenerator(tree, w).CompileClass()
}

// PathOptions is Options for CompilePath, the artifacts go to files beside
// each vm file.
type PathOptions struct {
	// Output replaces the vm file path when a single file is compiled.
	Output string
	// Tokens writes <Name>T.xml.
	Tokens bool
	// Tree writes <Name>.xml.
	Tree bool
}

// CompilePath compiles a .jack file, or every .jack file of a directory (not
// recursive), into <Name>.vm beside the source. It returns the written vm
// files in order.
func CompilePath(path string, opts PathOptions) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	var sources []string
	if info.IsDir() {
		if sources, err = listJackFiles(path); err != nil {
			return nil, err
		}
	} else {
		sources = []string{path}
	}
	var outputs []string
	for _, source := range sources {
		output := strings.TrimSuffix(source, filepath.Ext(source)) + ".vm"
		if !info.IsDir() && opts.Output != "" {
			output = opts.Output
		}
		if err := compileFile(source, output, opts); err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		outputs = append(outputs, output)
	}
	return outputs, nil
}

func isJackFile(fileName string) bool {
	return strings.HasSuffix(fileName, ".jack")
}

func listJackFiles(dir string) ([]string, error) {
	infos, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var ret []string
	for _, info := range infos {
		if info.IsDir() || !isJackFile(info.Name()) {
			continue
		}
		ret = append(ret, filepath.Join(dir, info.Name()))
	}
	sort.Strings(ret)
	return ret, nil
}

// compileFile writes output and the requested artifacts. Nothing it created
// is left behind when the compilation fails.
func compileFile(source, output string, opts PathOptions) (err error) {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()
	var created []*os.File
	defer func() {
		for _, f := range created {
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
		}
		if err == nil {
			return
		}
		for _, f := range created {
			os.Remove(f.Name())
		}
	}()
	create := func(path string) (*os.File, error) {
		f, err := os.Create(path)
		if err == nil {
			created = append(created, f)
		}
		return f, err
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	options := Options{}
	if opts.Tokens {
		if options.Tokens, err = create(base + "T.xml"); err != nil {
			return err
		}
	}
	if opts.Tree {
		if options.Tree, err = create(base + ".xml"); err != nil {
			return err
		}
	}
	out, err := create(output)
	if err != nil {
		return err
	}
	return Compile(in, out, options)
}
