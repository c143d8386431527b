/*
Package resource implements the per-resource state machine: a
registry of resources, each owning a single-consumer update queue
that totally orders every propose/force/release call against that one
resource, a claim/interest/notify ledger tied to session lifetime, and
the three-step commit pipeline (TDB write, audit append, state signal
publish) that runs whenever a proposal is accepted.

Concurrent proposals on the same resource are serialized by queue
arrival; each is validated against the state current at the moment it
is dequeued, not the state it was issued against, so two racing
proposals can see the second one rejected even though it looked valid
when sent.
*/
package resource
