// Package pretty renders documents built with package doc to text of a
// bounded width.
//
// Rendering is a single forward pass through four composed steps:
//
//	serialize   tree -> ops (Text, Line, Begin/End around groups, ...)
//	rights      stamps each op with the running right edge of the output
//	begins      resolves every Begin to a fit: the right edge of its End, or
//	            TooFar once the group provably cannot fit
//	format      walks the resolved stream and emits text fragments
//
// The begins step buffers at most one lookahead window of open groups, so
// memory stays bounded for arbitrarily long documents. Widths are counted in
// runes; Pass text is emitted verbatim and never counted.
package pretty
