// Package series models a series.conf style patch list.
//
// A document is split into a header, exactly one sorted subsection whose
// entries must follow upstream commit order, and any number of trailing
// groups. Comments and blank lines are kept attached to the content they
// annotate so that a parsed document formats back to the original text.
package series
