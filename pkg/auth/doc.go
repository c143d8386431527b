/*
Package auth wraps a SASL server: a closed registry of mechanisms,
each offered only when policy allows it (PLAIN is withheld unless the
connection is already over TLS), and a per-connection state machine
that drives one mechanism's challenge/response exchange to completion.

The wire mechanics of PLAIN and ANONYMOUS come from
github.com/emersion/go-sasl, the mechanism library the wider Go IMAP
and SMTP ecosystem already uses for this job. Everything arbitration-
specific — which mechanisms are on offer, how a successful exchange
resolves to a UserId, what happens when a step arrives after the
session has already terminated — lives in this package.
*/
package auth
