/*
Package runtime wires a loaded config.Config into a running daemon:
it opens storage, builds the user/role/resource subsystems, starts the
TLS-credentialed RPC server, and supervises one goroutine per
configured actor and initiator edge for the daemon's lifetime.

The supervision shape (a stopCh per background task, a signal that
tears every task down together) follows the teacher's own reconciler
loop, generalized here to one goroutine per actor/initiator edge
declared in config instead of a single polling loop.
*/
package runtime
