/*
Package rpc implements warden's capability-style request surface
(spec.md §4.10) as a single gRPC service dispatched over a
hand-written grpc.ServiceDesc rather than protoc-generated stubs — the
IDL compiler that would normally produce those is out of scope, and
generated code cannot be safely hand-authored without running it.
Messages are JSON, carried by a custom encoding.Codec registered under
the content-subtype "warden-json".

The capability tree is bootstrap -> auth capability -> session
capability -> machine/user/permission subsystems -> per-resource
faces. gRPC has no object-capability wire model, so a "capability" is
represented as an opaque server-minted token (an auth token while
stepping through SASL, a session token afterwards); every call that
would normally require possessing a face instead re-validates the
underlying permission against the live session, which is the
behavioral equivalent — a client that never received the grant can
never produce a token that passes it.
*/
package rpc
