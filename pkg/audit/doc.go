// Package audit writes the append-only JSON-lines record of every
// committed resource state change: one canonical object per line,
// newline-terminated, serialized through a single mutex around a
// buffered writer so concurrent commits never interleave partial
// lines.
package audit
