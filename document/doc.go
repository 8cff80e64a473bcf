// Package document models an inventory document as a tree of typed values.
//
// A [Value] is exactly one of:
//
//   - a scalar: [String], [Int], [Float] or [Bool];
//   - an [*Object]: string keys mapped to values, in insertion order;
//   - a [List]: an ordered sequence of values.
//
// The set is closed; no other package can add a kind. Whether a node is a
// list is therefore a question answered by its Go type, which matters for
// XML-derived data where a single repeated element and a plain nested element
// look identical until they are normalized with [AsList].
//
// Objects preserve insertion order so that encoded JSON follows the order of
// the source elements. Setting an existing key replaces its value in place.
// Setting a key to a nil [Value] removes it, so "absent" and "null" are the
// same thing in a document.
//
// Conversion to and from plain Go values ([Native], [From]) exists for code
// that works with encoding/json shaped data, such as schema validation.
//
// [Encode] writes JSON without HTML escaping, with an optional indent.
package document
