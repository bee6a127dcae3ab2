// Package fuzztests houses Go fuzz harnesses for the document pipeline
// (data form -> doc tree -> op stream -> text). They guard against panics,
// hangs and broken op stream invariants on arbitrary input.
//
// Seeds come from testdata/docs at the repository root plus a few inline
// documents.
package fuzztests
