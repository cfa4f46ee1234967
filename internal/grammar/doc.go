// Package grammar validates and collects the grammar productions embedded in
// a Markdown language specification.
//
// A grammar block is a fenced code block containing at least one production
// of the form
//
//	name := alternative1 | alternative2 ;
//
// Blocks whose first line is a comment heading marked "informative" are
// generated summaries and are never collected.
//
// Collector is a preprocessor hook: it validates every grammar block and
// replaces the marker line (Marker) with a single informative block holding
// all productions. Extract writes the productions of a document to a writer,
// which is how the standalone grammar listing is produced.
package grammar
