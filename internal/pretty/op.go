package pretty

import (
	"fmt"
	"strconv"
)

// OpKind tags an Op.
type OpKind uint8

const (
	OpInvalid OpKind = iota
	OpText
	OpPass
	OpEscaped
	OpLine
	OpBreak
	OpBegin
	OpEnd
	OpNest
	OpAlign
	OpOutdent
)

var opKindNames = [...]string{
	OpInvalid: "invalid",
	OpText:    "text",
	OpPass:    "pass",
	OpEscaped: "escaped",
	OpLine:    "line",
	OpBreak:   "break",
	OpBegin:   "begin",
	OpEnd:     "end",
	OpNest:    "nest",
	OpAlign:   "align",
	OpOutdent: "outdent",
}

func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return "OpKind(" + strconv.Itoa(int(k)) + ")"
}

// Op is one instruction of the flattened document.
type Op struct {
	Kind OpKind

	// Text is the payload of Text, Pass and Escaped ops and the inline
	// fallback of Line ops.
	Text string

	// Offset is the indentation delta of Nest and Align ops.
	Offset int

	// Right is the running right edge after this op, set by the rights step.
	Right int

	// Fit is the resolved fit of a Begin op, set by the begins step.
	Fit Fit
}

func (o Op) String() string {
	switch o.Kind {
	case OpText, OpPass, OpEscaped, OpLine:
		return fmt.Sprintf("%s %q @%d", o.Kind, o.Text, o.Right)
	case OpNest, OpAlign:
		return fmt.Sprintf("%s %d @%d", o.Kind, o.Offset, o.Right)
	case OpBegin:
		return fmt.Sprintf("%s %s @%d", o.Kind, o.Fit, o.Right)
	default:
		return fmt.Sprintf("%s @%d", o.Kind, o.Right)
	}
}

type fitState uint8

const (
	fitUnresolved fitState = iota
	fitKnown
	fitTooFar
)

// Fit is the outcome of the fit pass for one group: either the right edge
// of its End, or TooFar when the group was pruned before its End arrived.
// The zero Fit is unresolved.
type Fit struct {
	state fitState
	right int
}

// FitsAt returns a resolved fit whose group ends at right.
func FitsAt(right int) Fit { return Fit{state: fitKnown, right: right} }

// TooFar returns the fit of a group known not to fit.
func TooFar() Fit { return Fit{state: fitTooFar} }

// Resolved reports whether the fit pass decided f.
func (f Fit) Resolved() bool { return f.state != fitUnresolved }

func (f Fit) IsTooFar() bool { return f.state == fitTooFar }

// Right returns the group's right edge; ok is false unless f is known.
func (f Fit) Right() (right int, ok bool) {
	return f.right, f.state == fitKnown
}

func (f Fit) String() string {
	switch f.state {
	case fitKnown:
		return "fits<=" + strconv.Itoa(f.right)
	case fitTooFar:
		return "too-far"
	default:
		return "unresolved"
	}
}
