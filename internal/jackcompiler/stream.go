package jackcompiler

import (
	"bufio"
	"io"
	"strings"
)

// TagSource yields tags one at a time and returns io.EOF once exhausted.
type TagSource interface {
	Next() (*Tag, error)
}

// TagSink receives the tags of a stream in order.
type TagSink interface {
	Write(tag *Tag) error
}

// TagBuffer keeps a stream in memory. It is written once and may be read any
// number of times, Rewind starts reading over.
type TagBuffer struct {
	tags []*Tag
	pos  int
}

func (buffer *TagBuffer) Write(tag *Tag) error {
	buffer.tags = append(buffer.tags, tag)
	return nil
}

func (buffer *TagBuffer) Next() (*Tag, error) {
	if buffer.pos >= len(buffer.tags) {
		return nil, io.EOF
	}
	tag := buffer.tags[buffer.pos]
	buffer.pos++
	return tag, nil
}

func (buffer *TagBuffer) Rewind() {
	buffer.pos = 0
}

func (buffer *TagBuffer) Len() int {
	return len(buffer.tags)
}

// Tags returns every tag written so far.
func (buffer *TagBuffer) Tags() []*Tag {
	return buffer.tags
}

// Copy drains src into sink.
func Copy(sink TagSink, src TagSource) error {
	for {
		tag, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := sink.Write(tag); err != nil {
			return err
		}
	}
}

// cursor is the two tag window both the parser and the code generator walk
// with: current and lookahead. Both are nil past the end of the stream.
type cursor struct {
	src       TagSource
	current   *Tag
	lookahead *Tag
	lastLine  int
}

func newCursor(src TagSource) (*cursor, error) {
	c := &cursor{src: src}
	// shift twice to fill both slots.
	if err := c.advance(); err != nil {
		return nil, err
	}
	if err := c.advance(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cursor) advance() error {
	if c.current != nil {
		c.lastLine = c.current.Line
	}
	c.current, c.lookahead = c.lookahead, nil
	if c.src == nil {
		return nil
	}
	tag, err := c.src.Next()
	if err == io.EOF {
		c.src = nil
		return nil
	}
	if err != nil {
		return err
	}
	c.lookahead = tag
	return nil
}

// line is the line of the current tag, or of the last one at the end.
func (c *cursor) line() int {
	if c.current != nil {
		return c.current.Line
	}
	return c.lastLine
}

// near describes the current tag for diagnostics.
func (c *cursor) near() string {
	if c.current == nil {
		return "end of input"
	}
	return c.current.Value()
}

var xmlEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;", "\"", "&quot;", "&", "&amp;")

// WriteXML renders a stream as indented markup, one tag per line:
// <keyword> class </keyword> for terminals and <class> ... </class> around
// the children of a non terminal.
func WriteXML(w io.Writer, src TagSource) error {
	bf := bufio.NewWriter(w)
	depth := 0
	for {
		tag, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if tag.TP == NonTerminalTag && tag.Close {
			depth--
		}
		bf.WriteString(strings.Repeat("  ", depth))
		switch {
		case tag.TP != NonTerminalTag:
			bf.WriteString("<" + tag.TP.String() + "> " + xmlEscaper.Replace(tag.Value()) + " </" + tag.TP.String() + ">\n")
		case tag.Close:
			bf.WriteString("</" + tag.NonTerminal.String() + ">\n")
		default:
			bf.WriteString("<" + tag.NonTerminal.String() + ">\n")
			depth++
		}
	}
	return bf.Flush()
}
