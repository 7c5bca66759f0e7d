// Package index implements Base95 fractional indexing: printable-ASCII
// strings whose byte-wise lexicographic order is also their numeric order,
// used to keep sibling objects sorted without rewriting existing indices on
// insertion.
//
// The alphabet is the 95 printable ASCII bytes 0x20 ('space') through 0x7E
// ('~'). Byte 0x20 is reserved as the alphabet's structural zero digit: it
// is accepted when parsing an existing index, but Mid/Avg/AvgWithZero/
// AvgWithOne never choose it as the final byte of a value they generate,
// because a string ending in the lowest digit has no room below it for a
// later insertion (see DESIGN.md).
package index
