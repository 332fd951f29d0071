// Package ncproto decodes the protobuf-encoded message bodies of the
// NCStream protocol: the Header tree (groups, dimensions, variables,
// structures, enum typedefs, attributes), the Data envelope with its
// section ranges, server Error reports, and StructureData records.
//
// The schema is external and versioned; field numbers and enum values
// here must stay wire-compatible with the server's ncStream contract.
// Decoding walks the raw protobuf wire format directly via
// google.golang.org/protobuf/encoding/protowire.
package ncproto
