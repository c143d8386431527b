package types

import "encoding/json"

// LocalizedString holds a human-readable string with optional
// per-language variants, keyed by a BCP-47-ish tag ("en", "de", ...).
// The empty key "" is the fallback used when no variant matches the
// caller's preferred languages.
//
// Supplemented from the original Rust implementation's
// utils/l10nstring.rs, whose resource descriptions carry per-language
// text; spec.md's distillation types ResourceDescription.Description
// as a plain optional string, so a LocalizedString holding only the
// "" key marshals exactly like a plain string for compatibility.
type LocalizedString map[string]string

// NewLocalizedString builds a LocalizedString with only a fallback value.
func NewLocalizedString(fallback string) LocalizedString {
	return LocalizedString{"": fallback}
}

// Get returns the best match for the given language preference list,
// falling back to the "" entry, then to any single remaining entry.
func (l LocalizedString) Get(langs ...string) string {
	for _, lang := range langs {
		if v, ok := l[lang]; ok {
			return v
		}
	}
	if v, ok := l[""]; ok {
		return v
	}
	for _, v := range l {
		return v
	}
	return ""
}

// MarshalJSON renders a fallback-only LocalizedString as a plain JSON
// string, and a multi-variant one as a JSON object.
func (l LocalizedString) MarshalJSON() ([]byte, error) {
	if v, ok := l[""]; ok && len(l) == 1 {
		return json.Marshal(v)
	}
	return json.Marshal(map[string]string(l))
}

// UnmarshalJSON accepts either a plain JSON string (stored as the
// fallback "" entry) or a JSON object of language -> text.
func (l *LocalizedString) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*l = LocalizedString{"": plain}
		return nil
	}
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*l = obj
	return nil
}

// MarshalYAML and UnmarshalYAML mirror the JSON behavior above for
// config files: a fallback-only LocalizedString renders as a plain
// scalar, and parses back from either a scalar or a language map.
func (l LocalizedString) MarshalYAML() (interface{}, error) {
	if v, ok := l[""]; ok && len(l) == 1 {
		return v, nil
	}
	return map[string]string(l), nil
}

func (l *LocalizedString) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var plain string
	if err := unmarshal(&plain); err == nil {
		*l = LocalizedString{"": plain}
		return nil
	}
	var obj map[string]string
	if err := unmarshal(&obj); err != nil {
		return err
	}
	*l = obj
	return nil
}
