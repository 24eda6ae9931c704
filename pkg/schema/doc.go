// Package schema implements the ordered, declarative field model and the
// parse engine built on it. A Schema is constructed once from a sequence of
// field specifications, validates its global invariants eagerly (unique
// labels, known types, conditions referencing only earlier labels), and is
// immutable afterwards, so a single Schema can serve any number of concurrent
// Parse calls. Parse walks the fields in declaration order, decides
// applicability through each field's condition against the values resolved so
// far, coerces raw scalars into text or timestamps, applies choice and
// pattern constraints, and collects every violation into an ordered error
// list on the returned Record; invalid input never surfaces as a Go error.
// Interactive front ends drive the same logic one field at a time through
// Field.Applicable and Schema.ParseField.
package schema
