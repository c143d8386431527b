// Package session binds one successfully authenticated connection to
// its user, the role engine's computed permission set, a handle to
// the resource registry, and a correlation span for logging. It
// exposes the four capability predicates every resource-facing RPC
// call checks before acting.
package session
