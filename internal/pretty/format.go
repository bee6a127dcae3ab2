package pretty

import (
	"strings"
	"unicode/utf8"
)

// formatter turns a resolved op stream into text.
type formatter struct {
	width   int
	indents []int // indentation stack; the base entry is never popped
	fits    int   // >0 while inside groups laid out flat
	length  int   // right edge the current line may reach
	column  int
	seen    int
}

func newFormatter(width int) *formatter {
	return &formatter{width: width, indents: []int{0}, length: width}
}

func (f *formatter) push(op Op, emit func(string) error) error {
	idx := f.seen
	f.seen++
	indent := f.indents[len(f.indents)-1]

	switch op.Kind {
	case OpNest:
		f.indents = append(f.indents, indent+op.Offset)
	case OpAlign:
		f.indents = append(f.indents, f.column+op.Offset)
	case OpOutdent:
		if len(f.indents) == 1 {
			return &OpError{Index: idx, Op: op, Reason: "outdent without nest or align"}
		}
		f.indents = f.indents[:len(f.indents)-1]
	case OpBegin:
		if !op.Fit.Resolved() {
			return &OpError{Index: idx, Op: op, Reason: "begin reached the formatter unresolved"}
		}
		switch right, known := op.Fit.Right(); {
		case f.fits > 0:
			f.fits++
		case !known:
			f.fits = 0
		case right <= f.length:
			f.fits = 1
		default:
			f.fits = 0
		}
	case OpEnd:
		f.fits = max(f.fits-1, 0)
	case OpBreak:
		return f.newline(op, indent, emit)
	case OpLine:
		if f.fits == 0 {
			return f.newline(op, indent, emit)
		}
		f.column += utf8.RuneCountInString(op.Text)
		return write(op.Text, emit)
	case OpText, OpEscaped:
		if f.column == 0 {
			// Negative indents pad nothing but still shift the column.
			f.column = indent
			if indent > 0 {
				if err := emit(strings.Repeat(" ", indent)); err != nil {
					return err
				}
			}
		}
		if op.Kind == OpEscaped {
			f.column++
		} else {
			f.column += utf8.RuneCountInString(op.Text)
		}
		return write(op.Text, emit)
	case OpPass:
		return write(op.Text, emit)
	default:
		return &OpError{Index: idx, Op: op, Reason: "unknown op kind"}
	}
	return nil
}

func (f *formatter) newline(op Op, indent int, emit func(string) error) error {
	f.length = op.Right + f.width - indent
	f.column = 0
	return emit("\n")
}

func write(s string, emit func(string) error) error {
	if s == "" {
		return nil
	}
	return emit(s)
}
