package models

import "fmt"

// DuplicatePolicy decides which value is kept when a field name repeats.
type DuplicatePolicy string

const (
	DuplicateLastWins  DuplicatePolicy = "last"
	DuplicateFirstWins DuplicatePolicy = "first"
)

// ParseDuplicatePolicy validates a configured policy name. Empty means last-wins.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "", DuplicateLastWins:
		return DuplicateLastWins, nil
	case DuplicateFirstWins:
		return DuplicateFirstWins, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", s)
	}
}

// FormField is a single name/value pair.
type FormField struct {
	Name  string `json:"name" msgpack:"name"`
	Value string `json:"value" msgpack:"value"`
}

// FormFields is an ordered mapping from field name to a single value.
// Order is that of the first occurrence of each name.
type FormFields struct {
	policy DuplicatePolicy
	index  map[string]int
	fields []FormField
}

// NewFormFields creates an empty mapping using the given duplicate policy.
func NewFormFields(policy DuplicatePolicy) *FormFields {
	if policy == "" {
		policy = DuplicateLastWins
	}
	return &FormFields{
		policy: policy,
		index:  make(map[string]int),
	}
}

// Add records a value for name, applying the duplicate policy.
func (f *FormFields) Add(name, value string) {
	if i, ok := f.index[name]; ok {
		if f.policy == DuplicateLastWins {
			f.fields[i].Value = value
		}
		return
	}
	f.index[name] = len(f.fields)
	f.fields = append(f.fields, FormField{Name: name, Value: value})
}

// Fields returns a copy of the pairs in order.
func (f *FormFields) Fields() []FormField {
	out := make([]FormField, len(f.fields))
	copy(out, f.fields)
	return out
}
