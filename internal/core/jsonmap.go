package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Attributes is a variant's dimension->value map (e.g. {size: M, color:
// Blue}). It serializes with sorted keys so two variants built from the
// same unordered input produce byte-identical JSON and therefore the
// same reconciliation key, per the deterministic key-ordering the
// specification requires.
type Attributes map[string]string

// Normalize trims keys/values and drops empty keys, returning a fresh map.
func (a Attributes) Normalize() Attributes {
	if a == nil {
		return Attributes{}
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}

// Key returns the deterministic, key-sorted string used to compare two
// attribute maps for identity (spec.md §4.2, §4.3).
func (a Attributes) Key() string {
	norm := a.Normalize()
	keys := make([]string, 0, len(norm))
	for k := range norm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(norm[k])
	}
	return b.String()
}

// Value implements driver.Valuer, marshaling to a key-sorted JSON object
// so the jsonb column content is itself deterministic.
func (a Attributes) Value() (driver.Value, error) {
	norm := a.Normalize()
	keys := make([]string, 0, len(norm))
	for k := range norm {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(norm[k])
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.String(), nil
}

// Scan implements sql.Scanner.
func (a *Attributes) Scan(src any) error {
	if src == nil {
		*a = Attributes{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("core.Attributes: unsupported scan type %T", src)
	}
	out := make(Attributes)
	if len(raw) == 0 {
		*a = out
		return nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("core.Attributes: %w", err)
	}
	*a = out
	return nil
}

// Metadata is the free-form jsonb payload carried by products, variants,
// check runs, and scheduler logs.
type Metadata map[string]any

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = Metadata{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("core.Metadata: unsupported scan type %T", src)
	}
	out := make(Metadata)
	if len(raw) == 0 {
		*m = out
		return nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("core.Metadata: %w", err)
	}
	*m = out
	return nil
}
