// Package filter evaluates SCIM equality and disjunction filters against directory users.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/gravitl/scimdir/models"
)

// Filter - a predicate over users, either an Equality or an Or
type Filter interface {
	filter()
}

// AttributePath - [schema:]name[.subAttribute]
type AttributePath struct {
	Schema       string
	Name         string
	SubAttribute string
}

func (p AttributePath) String() string {
	s := p.Name
	if p.SubAttribute != "" {
		s += "." + p.SubAttribute
	}
	if p.Schema != "" {
		s = p.Schema + ":" + s
	}
	return s
}

// Equality - attribute equals literal
type Equality struct {
	Path  AttributePath
	Value string
}

// Or - any of the equalities holds
type Or struct {
	Filters []Equality
}

func (Equality) filter() {}
func (Or) filter()       {}

// Eq - shorthand for an equality on a core attribute
func Eq(name, value string) Equality {
	name, sub, _ := strings.Cut(name, ".")
	return Equality{Path: AttributePath{Name: name, SubAttribute: sub}, Value: value}
}

// AnyOf - shorthand for an Or of equalities
func AnyOf(filters ...Equality) Or {
	return Or{Filters: filters}
}

// Evaluator - matches filters against users carrying custom attributes under UserNamespace
type Evaluator struct {
	UserNamespace string
}

// Match - reports whether the user satisfies the filter. Unrecognized paths never match.
func (e Evaluator) Match(f Filter, u models.User) bool {
	switch f := f.(type) {
	case Equality:
		return e.matchEquality(f, u)
	case *Equality:
		return f != nil && e.matchEquality(*f, u)
	case Or:
		return e.matchAny(f.Filters, u)
	case *Or:
		return f != nil && e.matchAny(f.Filters, u)
	}
	return false
}

// Supported - reports whether every path in the filter is one the evaluator understands
func (e Evaluator) Supported(f Filter) bool {
	switch f := f.(type) {
	case Equality:
		return e.attribute(f.Path) != unknownAttr
	case *Equality:
		return f != nil && e.attribute(f.Path) != unknownAttr
	case Or:
		return e.allSupported(f.Filters)
	case *Or:
		return f != nil && e.allSupported(f.Filters)
	}
	return false
}

func (e Evaluator) allSupported(filters []Equality) bool {
	if len(filters) == 0 {
		return false
	}
	for _, eq := range filters {
		if e.attribute(eq.Path) == unknownAttr {
			return false
		}
	}
	return true
}

func (e Evaluator) matchAny(filters []Equality, u models.User) bool {
	for _, eq := range filters {
		if e.matchEquality(eq, u) {
			return true
		}
	}
	return false
}

type attr int

const (
	unknownAttr attr = iota
	idAttr
	userNameAttr
	familyNameAttr
	givenNameAttr
	emailAttr
	customAttr
)

// attribute - classifies a path; names compare case-insensitively
func (e Evaluator) attribute(p AttributePath) attr {
	schema := p.Schema
	if isCoreSchema(schema) {
		schema = ""
	}
	if schema != "" {
		if e.UserNamespace != "" && strings.EqualFold(schema, e.UserNamespace) && p.Name != "" {
			return customAttr
		}
		return unknownAttr
	}
	switch strings.ToLower(p.Name) {
	case "id":
		if p.SubAttribute == "" {
			return idAttr
		}
	case "username":
		if p.SubAttribute == "" {
			return userNameAttr
		}
	case "name":
		switch strings.ToLower(p.SubAttribute) {
		case "familyname":
			return familyNameAttr
		case "givenname":
			return givenNameAttr
		}
	case "email", "emails":
		if p.SubAttribute == "" || strings.EqualFold(p.SubAttribute, "value") {
			return emailAttr
		}
	}
	return unknownAttr
}

func (e Evaluator) matchEquality(eq Equality, u models.User) bool {
	switch e.attribute(eq.Path) {
	case idAttr:
		return u.ID == eq.Value
	case userNameAttr:
		return u.UserName == eq.Value
	case familyNameAttr:
		return u.Name != nil && u.Name.FamilyName == eq.Value
	case givenNameAttr:
		return u.Name != nil && u.Name.GivenName == eq.Value
	case emailAttr:
		for _, email := range u.Emails {
			if foldEqual(email.Value, eq.Value) {
				return true
			}
		}
		return false
	case customAttr:
		return e.matchCustom(eq, u)
	}
	return false
}

func (e Evaluator) matchCustom(eq Equality, u models.User) bool {
	bag := lookupFold(u.Custom, eq.Path.Schema)
	if bag == nil {
		return false
	}
	v, ok := fieldFold(bag, eq.Path.Name)
	if !ok {
		return false
	}
	if eq.Path.SubAttribute != "" {
		nested, ok := asBag(v)
		if !ok {
			return false
		}
		if v, ok = fieldFold(nested, eq.Path.SubAttribute); !ok {
			return false
		}
	}
	text, ok := models.Text(v)
	return ok && foldEqual(text, eq.Value)
}

func isCoreSchema(schema string) bool {
	return strings.EqualFold(schema, models.CoreUserSchema) || strings.EqualFold(schema, models.LegacyCoreSchema)
}

func lookupFold(custom map[string]models.Attributes, namespace string) models.Attributes {
	if bag, ok := custom[namespace]; ok {
		return bag
	}
	for ns, bag := range custom {
		if strings.EqualFold(ns, namespace) {
			return bag
		}
	}
	return nil
}

func fieldFold(bag map[string]interface{}, name string) (interface{}, bool) {
	if v, ok := bag[name]; ok {
		return v, true
	}
	for k, v := range bag {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func asBag(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case models.Attributes:
		return t, true
	case map[string]interface{}:
		return t, true
	}
	return nil, false
}

// foldEqual - Unicode case folded comparison; a Caser is not safe to share across goroutines
func foldEqual(a, b string) bool {
	if a == b {
		return true
	}
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
