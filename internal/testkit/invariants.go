package testkit

import (
	"fmt"
	"unicode/utf8"

	"weave/internal/pretty"
)

// CheckOps runs the op stream invariants on an annotated stream (the output
// of pretty.Annotate):
// 1) Begin/End are balanced and properly nested
// 2) Nest/Align are balanced with Outdent and never popped below the base
// 3) every Begin carries a resolved fit, and a known fit is never left of
// the Begin itself
// 4) right edges are the running sum of op widths, hence non-decreasing
func CheckOps(ops []pretty.Op) error {
	var groups, indents, right int
	for i, op := range ops {
		switch op.Kind {
		case pretty.OpBegin:
			groups++
			if !op.Fit.Resolved() {
				return fmt.Errorf("op %d: begin has no fit", i)
			}
			if r, ok := op.Fit.Right(); ok && r < op.Right {
				return fmt.Errorf("op %d: fit %d is left of begin at %d", i, r, op.Right)
			}
		case pretty.OpEnd:
			groups--
			if groups < 0 {
				return fmt.Errorf("op %d: end without begin", i)
			}
		case pretty.OpNest, pretty.OpAlign:
			indents++
		case pretty.OpOutdent:
			indents--
			if indents < 0 {
				return fmt.Errorf("op %d: outdent below the base indentation", i)
			}
		case pretty.OpText, pretty.OpLine:
			right += utf8.RuneCountInString(op.Text)
		case pretty.OpEscaped:
			if n := utf8.RuneCountInString(op.Text); n != 1 {
				return fmt.Errorf("op %d: escaped payload has %d characters", i, n)
			}
			right++
		case pretty.OpPass, pretty.OpBreak:
		default:
			return fmt.Errorf("op %d: unknown kind %s", i, op.Kind)
		}
		if op.Right != right {
			return fmt.Errorf("op %d (%s): right = %d, want %d", i, op.Kind, op.Right, right)
		}
	}
	if groups != 0 {
		return fmt.Errorf("%d groups left open", groups)
	}
	if indents != 0 {
		return fmt.Errorf("%d indentation levels left open", indents)
	}
	return nil
}
