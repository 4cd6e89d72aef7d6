// Package pcf implements the Parameter Collection File format.
//
// A PCF file is a sequence of newline-terminated text records, one per
// parameter or lookup parameter. Each record is a header line followed by a
// payload of exactly the declared number of bytes:
//
//	#Parameter# /enc/W_0 {3,4} 123
//	[values...]
//	[gradients...]
//
// The payload length lets readers skip records they are not interested in
// with a single seek, without parsing any numeric text.
package pcf

// Tag identifies the kind of entity stored in a record.
type Tag string

// Record tags must never change.
const (
	TagParameter       Tag = "#Parameter#"
	TagLookupParameter Tag = "#LookupParameter#"
)

// Known reports whether t is one of the two record tags.
func (t Tag) Known() bool {
	return t == TagParameter || t == TagLookupParameter
}
