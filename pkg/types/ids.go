package types

import "strings"

// UserID identifies a user record in the directory.
type UserID string

// ResourceID identifies a resource (machine) in the registry.
type ResourceID string

// RoleIdentifier identifies a role, optionally scoped to a source
// database other than the local one. The wire/string form is
// "name/source"; an identifier with no "/" has an empty Source,
// meaning "local". Parsing is total: every string parses to some
// RoleIdentifier, never an error.
type RoleIdentifier struct {
	Name   string
	Source string
}

// ParseRoleIdentifier parses "name/source" into a RoleIdentifier.
// "name" with no slash yields an empty Source (local).
func ParseRoleIdentifier(s string) RoleIdentifier {
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		return RoleIdentifier{Name: s[:idx], Source: s[idx+1:]}
	}
	return RoleIdentifier{Name: s}
}

// String renders the identifier back to its "name/source" wire form.
// A local (empty-Source) identifier renders as just "name".
func (r RoleIdentifier) String() string {
	if r.Source == "" {
		return r.Name
	}
	return r.Name + "/" + r.Source
}

func (r RoleIdentifier) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RoleIdentifier) UnmarshalText(text []byte) error {
	*r = ParseRoleIdentifier(string(text))
	return nil
}

// MarshalYAML and UnmarshalYAML let a RoleIdentifier appear directly
// in a config file as its "name/source" string form, matching
// MarshalText/UnmarshalText's JSON behavior.
func (r RoleIdentifier) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

func (r *RoleIdentifier) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*r = ParseRoleIdentifier(s)
	return nil
}
