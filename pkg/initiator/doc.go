/*
Package initiator runs one driver goroutine per (initiator, resource)
edge declared in configuration. A driver owns a Source of proposed
state changes and a session identity to propose them under; its life
cycle is Empty -> Sleeping -> Updating -> Sleeping -> ... : it waits
for the next proposal (Sleeping), submits it through the resource's
normal commit pipeline (Updating), then waits again. Stopping the
driver releases its session exactly like any other session drop: if
it was the current holder, the resource is freed through the normal
pipeline.
*/
package initiator
