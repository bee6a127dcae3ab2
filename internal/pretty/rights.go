package pretty

import "unicode/utf8"

// rights stamps each op with the right edge the output would reach if
// nothing before it broke.
type rights struct {
	pos int
}

func (r *rights) push(op Op, emit func(Op) error) error {
	switch op.Kind {
	case OpText, OpLine:
		r.pos += utf8.RuneCountInString(op.Text)
	case OpEscaped:
		r.pos++
	}
	op.Right = r.pos
	return emit(op)
}
