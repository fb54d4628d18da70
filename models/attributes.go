package models

import (
	"encoding/json"
	"strconv"
)

// Attributes - a bag of custom properties kept under one schema URN.
// Leaves are string, bool, integer or float values; nested bags are Attributes too.
type Attributes map[string]interface{}

// SetString - sets a string custom property, creating parent bags as needed
func (a Attributes) SetString(field, value string, parents ...string) {
	a.parent(parents, true)[field] = value
}

// SetBool - sets a boolean custom property
func (a Attributes) SetBool(field string, value bool, parents ...string) {
	a.parent(parents, true)[field] = value
}

// SetInt - sets an integer custom property
func (a Attributes) SetInt(field string, value int64, parents ...string) {
	a.parent(parents, true)[field] = value
}

// SetFloat - sets a float custom property
func (a Attributes) SetFloat(field string, value float64, parents ...string) {
	a.parent(parents, true)[field] = value
}

// GetString - returns a string custom property
func (a Attributes) GetString(field string, parents ...string) (string, bool) {
	v, ok := a.Lookup(field, parents...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetBool - returns a boolean custom property
func (a Attributes) GetBool(field string, parents ...string) (bool, bool) {
	v, ok := a.Lookup(field, parents...)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetInt - returns an integer custom property
func (a Attributes) GetInt(field string, parents ...string) (int64, bool) {
	v, ok := a.Lookup(field, parents...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

// GetFloat - returns a float custom property
func (a Attributes) GetFloat(field string, parents ...string) (float64, bool) {
	v, ok := a.Lookup(field, parents...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Lookup - returns the raw value at parents.../field
func (a Attributes) Lookup(field string, parents ...string) (interface{}, bool) {
	bag := a.parent(parents, false)
	if bag == nil {
		return nil, false
	}
	v, ok := bag[field]
	return v, ok
}

// Text - returns the textual form of a leaf, false for bags, lists and nulls
func Text(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

// Clone - deep copies the bag
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

func (a Attributes) parent(parents []string, create bool) Attributes {
	bag := a
	for _, p := range parents {
		next, ok := asAttributes(bag[p])
		if !ok {
			if !create {
				return nil
			}
			next = Attributes{}
			bag[p] = next
		}
		bag = next
	}
	return bag
}

func asAttributes(v interface{}) (Attributes, bool) {
	switch t := v.(type) {
	case Attributes:
		return t, true
	case map[string]interface{}:
		return Attributes(t), true
	}
	return nil, false
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case Attributes:
		return t.Clone()
	case map[string]interface{}:
		return map[string]interface{}(Attributes(t).Clone())
	case []interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	}
	return v
}

func decodeAttributes(raw json.RawMessage) (Attributes, error) {
	var bag map[string]interface{}
	if err := decodeNumbers(raw, &bag); err != nil {
		return nil, err
	}
	return normalize(bag), nil
}

// normalize turns nested decoded objects into Attributes so typed getters work at any depth
func normalize(m map[string]interface{}) Attributes {
	if m == nil {
		return nil
	}
	out := make(Attributes, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = normalize(nested)
			continue
		}
		out[k] = v
	}
	return out
}
