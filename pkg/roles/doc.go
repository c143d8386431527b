// Package roles evaluates a user's effective permission set by
// walking their declared roles and every role those roles inherit
// from. The role graph is supplied as a flat map loaded from
// configuration; the traversal itself holds nothing but that map and
// is safe for concurrent read-only use.
package roles
