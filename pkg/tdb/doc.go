/*
Package tdb is warden's typed, embedded key-value store: an
Environment opens a memory-mapped, copy-on-write database file
(backed by go.etcd.io/bbolt) holding named sub-databases ("buckets" in
bbolt's vocabulary). Read transactions may overlap freely; write
transactions are serialized by bbolt itself, which already gives us
the single-writer/many-readers contract spec.md §4.1 asks for.

Values are stored behind a small versioned envelope (TypedDB) so a
reader can detect a format mismatch and fail with an Incompatible error
instead of silently misinterpreting bytes — the practical Go rendering
of spec.md's "archived root validation" requirement. This is not a
zero-copy archive format: Get still materializes an owned value via
encoding/json, because no dependency in the reference corpus offers an
rkyv-equivalent zero-copy Go deserializer, and hand-rolling one would
trade a well-understood, widely used codec for a bespoke unsafe one
with no test coverage to back it. See DESIGN.md.

A side-car IndexManager (index.go) tracks a generation counter and a
monotonic next_id per database, persisted next to the bbolt file and
reloaded at startup.
*/
package tdb
