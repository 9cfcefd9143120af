package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MetadataKind names the variant held by a MetadataValue
type MetadataKind int

const (
	MetadataKindInvalid MetadataKind = iota
	MetadataKindString
	MetadataKindNumber
	MetadataKindBool
	MetadataKindStrings
)

func (k MetadataKind) String() string {
	switch k {
	case MetadataKindString:
		return "string"
	case MetadataKindNumber:
		return "number"
	case MetadataKindBool:
		return "bool"
	case MetadataKindStrings:
		return "strings"
	default:
		return "invalid"
	}
}

// MetadataValue is a string, number, bool or list of strings. Nothing else.
// The zero value is invalid and is rejected when marshaled.
type MetadataValue struct {
	kind    MetadataKind
	str     string
	num     float64
	boolean bool
	list    []string
}

// StringValue wraps a string
func StringValue(s string) MetadataValue {
	return MetadataValue{kind: MetadataKindString, str: s}
}

// NumberValue wraps a number
func NumberValue(n float64) MetadataValue {
	return MetadataValue{kind: MetadataKindNumber, num: n}
}

// BoolValue wraps a bool
func BoolValue(b bool) MetadataValue {
	return MetadataValue{kind: MetadataKindBool, boolean: b}
}

// StringsValue wraps a list of strings. The slice is copied.
func StringsValue(items []string) MetadataValue {
	list := make([]string, len(items))
	copy(list, items)
	return MetadataValue{kind: MetadataKindStrings, list: list}
}

// Kind returns the held variant
func (v MetadataValue) Kind() MetadataKind {
	return v.kind
}

// AsString returns the string variant
func (v MetadataValue) AsString() (string, bool) {
	return v.str, v.kind == MetadataKindString
}

// AsNumber returns the number variant
func (v MetadataValue) AsNumber() (float64, bool) {
	return v.num, v.kind == MetadataKindNumber
}

// AsBool returns the bool variant
func (v MetadataValue) AsBool() (bool, bool) {
	return v.boolean, v.kind == MetadataKindBool
}

// AsStrings returns a copy of the string list variant
func (v MetadataValue) AsStrings() ([]string, bool) {
	if v.kind != MetadataKindStrings {
		return nil, false
	}
	list := make([]string, len(v.list))
	copy(list, v.list)
	return list, true
}

// MarshalJSON implements json.Marshaler
func (v MetadataValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case MetadataKindString:
		return json.Marshal(v.str)
	case MetadataKindNumber:
		return json.Marshal(v.num)
	case MetadataKindBool:
		return json.Marshal(v.boolean)
	case MetadataKindStrings:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return nil, fmt.Errorf("cannot marshal invalid metadata value")
	}
}

// UnmarshalJSON implements json.Unmarshaler, rejecting objects, null and nested arrays
func (v *MetadataValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty metadata value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("invalid metadata list: %w", err)
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if item = bytes.TrimSpace(item); len(item) == 0 || item[0] != '"' {
				return fmt.Errorf("metadata lists may only contain strings")
			}
			if err := json.Unmarshal(item, &s); err != nil {
				return err
			}
			list = append(list, s)
		}
		*v = StringsValue(list)
	case '{':
		return fmt.Errorf("metadata values may not be objects")
	case 'n':
		return fmt.Errorf("metadata values may not be null")
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("invalid metadata value: %w", err)
		}
		*v = NumberValue(n)
	}
	return nil
}

// SourceMetadata is an optional mapping carried with a generation request
type SourceMetadata map[string]MetadataValue

// Keys returns the metadata keys in sorted order
func (m SourceMetadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate rejects entries holding the zero MetadataValue
func (m SourceMetadata) Validate() error {
	for _, k := range m.Keys() {
		if m[k].Kind() == MetadataKindInvalid {
			return fmt.Errorf("metadata key %q has no value", k)
		}
	}
	return nil
}
