// Package wire implements the deterministic little-endian binary codec
// used on the client/server boundary and on disk: fixed-width integers,
// UUIDs as 16 raw bytes, IEEE-754 floats via math.Float32bits, and
// length-prefixed strings/byte vectors. It deliberately avoids a generic
// serialization library (protobuf, gob) because the exact byte layout is
// part of the protocol contract, not an implementation detail a library
// should own.
package wire
