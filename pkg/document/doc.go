// Package document implements the property-oriented document store:
// a flat table of (object, property) → value
// pairs, an object-kind table, and a tombstone set, plus the read-side
// helpers (children, local/global transform) built on top of the small
// capability interface every layer in this system reads through.
package document
