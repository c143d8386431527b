/*
Package actor runs one driver goroutine per (resource, actor) edge
declared in configuration. Each driver subscribes to its resource's
state signal and holds at most one in-flight Apply call; a state
published while an Apply is still running is coalesced with whatever
arrives next, so only the latest state at the moment Apply finishes is
ever applied — intermediate states can be skipped. This is the
intended last-writer-wins semantics for an actuator: a relay or
indicator light only cares where the resource ended up, not every
transient state it passed through.
*/
package actor
