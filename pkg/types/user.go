package types

// User is a persisted user record: credentials, ordered role
// membership and free-form attributes.
//
// PasswordHash holds an argon2id-encoded string (the standard
// "$argon2id$v=..." form produced by golang.org/x/crypto/argon2) or
// is empty when the account has no password set (e.g. it only
// authenticates through a non-password mechanism).
type User struct {
	ID           UserID            `json:"id" toml:"-"`
	PasswordHash string            `json:"password_hash,omitempty" toml:"password"`
	Roles        []RoleIdentifier  `json:"roles" toml:"roles"`
	Attributes   map[string]string `json:"attributes,omitempty" toml:"attributes,omitempty"`
}

// Role is a named bundle of permission rules, inheriting from parent
// roles. Parents form a DAG; cycles are tolerated by every consumer
// (see pkg/roles) rather than rejected at load time.
type Role struct {
	Parents     []RoleIdentifier `json:"parents,omitempty" yaml:"parents,omitempty"`
	Permissions []PermissionRule `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}
