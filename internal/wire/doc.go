// Package wire implements the NCStream framing layer: protobuf-style
// varints, the four magic delimiters plus the error marker, and the
// length-prefixed block reads that carry protobuf message bodies and
// array payloads.
package wire
