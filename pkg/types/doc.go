/*
Package types defines the core data structures shared across warden.

This package holds the domain model for the resource-arbitration engine:
identifiers, user records, roles and permission rules, resource
descriptions and state, and the claim/interest/notify ledger. All other
packages build on these types for storage, authorization and RPC.

# Core Types

Identity and access:
  - UserID, RoleIdentifier: short string identifiers; RoleIdentifier
    carries an optional "source" database name ("name/source").
  - User: credentials (argon2 password hash), ordered role list,
    free-form string attributes.
  - Role: parent roles (DAG, cycles tolerated) and permission rules.
  - PermissionRule: a dotted, optionally wildcarded permission name.

Resources:
  - ResourceID: short string identifier for a machine.
  - ResourceDescription: static, config-sourced metadata and the
    permission rule required for each of disclose/read/write/manage.
  - Status: tagged union of Free/InUse/ToCheck/Blocked/Disabled/Reserved.
  - ClaimLevel, ClaimEntry: the claim/interest/notify ledger.

All types are plain structs encoded with encoding/json; there is no
zero-copy archive format in this port (see pkg/tdb's doc comment for
why, and DESIGN.md for the tradeoff).
*/
package types
