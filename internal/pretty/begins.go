package pretty

import (
	"fmt"

	"weave/internal/deque"
	"weave/internal/trace"
)

// buffer holds the ops of one open group while its fit is undecided.
type buffer struct {
	begin  Op
	target int // right edge the group must end by to fit
	ops    []Op
}

// begins resolves the Fit of every Begin op.
//
// A group is buffered from its Begin until either its End arrives (the fit
// is the End's right edge) or the outermost open group is proven too wide:
// an op's right edge passed the outermost target, or more groups are open
// than the lookahead allows. The outermost group is then flushed as TooFar
// and the next one becomes outermost.
type begins struct {
	width     int
	lookahead int
	pos       int // target of the outermost buffer, 0 when none is open
	bufs      *deque.Deque[*buffer]

	depth   int // open groups, flushed ones included
	seen    int
	pruned  int
	maxOpen int

	tracer trace.Tracer
	span   uint64
}

func newBegins(opt Options, t trace.Tracer, span uint64) *begins {
	return &begins{
		width:     opt.width(),
		lookahead: opt.lookahead(),
		bufs:      deque.New[*buffer](16),
		tracer:    t,
		span:      span,
	}
}

func (b *begins) push(op Op, emit func(Op) error) error {
	idx := b.seen
	b.seen++
	switch op.Kind {
	case OpBegin:
		b.depth++
	case OpEnd:
		if b.depth == 0 {
			return &OpError{Index: idx, Op: op, Reason: "end without a matching begin"}
		}
		b.depth--
	}

	if b.bufs.Empty() {
		if op.Kind != OpBegin {
			return emit(op)
		}
		b.pos = op.Right + b.width
		b.bufs.PushBack(&buffer{begin: op, target: b.pos})
		b.maxOpen = max(b.maxOpen, 1)
		return nil
	}

	switch op.Kind {
	case OpEnd:
		closed, _ := b.bufs.PopBack()
		closed.begin.Fit = FitsAt(op.Right)
		parent, ok := b.bufs.Back()
		if !ok {
			b.pos = 0
			return b.flush(closed, &op, emit)
		}
		parent.ops = append(parent.ops, closed.begin)
		parent.ops = append(parent.ops, closed.ops...)
		parent.ops = append(parent.ops, op)
		return nil
	case OpBegin:
		b.bufs.PushBack(&buffer{begin: op, target: op.Right + b.width})
	default:
		inner, _ := b.bufs.Back()
		inner.ops = append(inner.ops, op)
	}

	if err := b.prune(op.Right, emit); err != nil {
		return err
	}
	b.maxOpen = max(b.maxOpen, b.bufs.Len())
	return nil
}

// prune flushes outermost groups as TooFar while they cannot fit.
func (b *begins) prune(right int, emit func(Op) error) error {
	for !b.bufs.Empty() && (right > b.pos || b.bufs.Len() > b.lookahead) {
		outer, _ := b.bufs.PopFront()
		outer.begin.Fit = TooFar()
		b.pruned++
		if trace.Enabled(b.tracer, trace.ScopeGroup) {
			trace.Point(b.tracer, trace.ScopeGroup, "prune",
				fmt.Sprintf("right=%d target=%d open=%d", right, outer.target, b.bufs.Len()+1), b.span)
		}
		if err := b.flush(outer, nil, emit); err != nil {
			return err
		}
		if front, ok := b.bufs.Front(); ok {
			b.pos = front.target
		} else {
			b.pos = 0
		}
	}
	return nil
}

func (b *begins) flush(buf *buffer, end *Op, emit func(Op) error) error {
	if err := emit(buf.begin); err != nil {
		return err
	}
	for _, op := range buf.ops {
		if err := emit(op); err != nil {
			return err
		}
	}
	if end != nil {
		return emit(*end)
	}
	return nil
}

// finish checks that the stream closed every group.
func (b *begins) finish() error {
	if b.depth == 0 {
		return nil
	}
	op := Op{Kind: OpBegin}
	if inner, ok := b.bufs.Back(); ok {
		op = inner.begin
	}
	return &OpError{Index: b.seen, Op: op, Reason: fmt.Sprintf("%d groups left open at end of stream", b.depth)}
}
