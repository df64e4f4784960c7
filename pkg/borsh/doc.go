// Package borsh implements a schema-driven, fixed-layout binary codec.
//
// Shapes are described by Descriptor values (primitive integers, fixed byte
// blocks, fixed arrays, ordered records and one-byte-tagged unions) and
// registered under string identifiers with a Builder. The resulting Registry
// is immutable and encodes Record/Variant value trees to bytes and back.
//
// Integers are little-endian. Records are the concatenation of their fields
// in declaration order. Unions are a single discriminant byte, equal to the
// active variant's declaration position, followed by its payload. There are
// no length prefixes anywhere: the descriptor determines every length.
package borsh
