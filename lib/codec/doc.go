// Package codec defines the tagged value representation used by the store.
//
// A Value carries exactly one of the five storable primitives (32-bit float,
// 32-bit int, 64-bit int, string, boolean) together with its type tag. The
// tag is part of value equality: an Int and a Long holding the same number
// compare unequal. This property is relied upon by the store's
// skip-identical-write optimization.
//
// JSON objects and arrays are not a sixth type. They are encoded to and
// decoded from their canonical string form and stored as plain strings, so
// they are indistinguishable from strings on disk.
package codec
