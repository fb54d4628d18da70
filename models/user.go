package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

const (
	// CoreUserSchema - SCIM 2.0 core user schema URN
	CoreUserSchema = "urn:ietf:params:scim:schemas:core:2.0:User"
	// LegacyCoreSchema - SCIM 1.1 core schema URN still sent by older orchestrators
	LegacyCoreSchema = "urn:scim:schemas:core:1.0"
	// CustomURNPrefix - prefix of the app specific user namespace
	CustomURNPrefix = "urn:okta:"
	// CustomURNSuffix - sits between the app name and the schema name
	CustomURNSuffix = ":1.0:user:"
)

// UserNamespace - builds the custom user namespace for an app and its directory schema,
// e.g. urn:okta:onprem_app:1.0:user:custom
func UserNamespace(appName, schemaName string) string {
	return CustomURNPrefix + appName + CustomURNSuffix + schemaName
}

// Name - structured name of a user
type Name struct {
	Formatted  string `json:"formatted,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	GivenName  string `json:"givenName,omitempty"`
}

// Email - a tagged email address
type Email struct {
	Value   string `json:"value" validate:"required"`
	Type    string `json:"type,omitempty"`
	Primary bool   `json:"primary,omitempty"`
}

// PhoneNumber - a tagged phone number
type PhoneNumber struct {
	Value   string `json:"value" validate:"required"`
	Type    string `json:"type,omitempty"`
	Primary bool   `json:"primary,omitempty"`
}

// Membership - reference from a group to a user or from a user to a group
type Membership struct {
	Value   string `json:"value" validate:"required"`
	Display string `json:"display,omitempty"`
}

// User - a directory user
type User struct {
	ID           string                `json:"id,omitempty"`
	UserName     string                `json:"userName" validate:"required,notblank"`
	Name         *Name                 `json:"name,omitempty"`
	Emails       []Email               `json:"emails,omitempty" validate:"dive"`
	PhoneNumbers []PhoneNumber         `json:"phoneNumbers,omitempty" validate:"dive"`
	Active       bool                  `json:"active"`
	Password     string                `json:"password,omitempty"`
	Groups       []Membership          `json:"groups,omitempty"`
	Custom       map[string]Attributes `json:"-"`
}

// CustomBag - returns the bag for a namespace, creating it when asked
func (u *User) CustomBag(namespace string, create bool) Attributes {
	if bag, ok := u.Custom[namespace]; ok {
		return bag
	}
	if !create {
		return nil
	}
	if u.Custom == nil {
		u.Custom = make(map[string]Attributes)
	}
	bag := Attributes{}
	u.Custom[namespace] = bag
	return bag
}

// Clone - deep copies the user
func (u User) Clone() User {
	out := u
	if u.Name != nil {
		name := *u.Name
		out.Name = &name
	}
	if u.Emails != nil {
		out.Emails = append([]Email(nil), u.Emails...)
	}
	if u.PhoneNumbers != nil {
		out.PhoneNumbers = append([]PhoneNumber(nil), u.PhoneNumbers...)
	}
	if u.Groups != nil {
		out.Groups = append([]Membership(nil), u.Groups...)
	}
	if u.Custom != nil {
		out.Custom = make(map[string]Attributes, len(u.Custom))
		for ns, bag := range u.Custom {
			out.Custom[ns] = bag.Clone()
		}
	}
	return out
}

type userAlias User

// MarshalJSON - emits custom bags as top level URN keys next to the core attributes
func (u User) MarshalJSON() ([]byte, error) {
	core, err := json.Marshal(userAlias(u))
	if err != nil {
		return nil, err
	}
	namespaces := make([]string, 0, len(u.Custom))
	for ns := range u.Custom {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)
	schemas := append([]string{CoreUserSchema}, namespaces...)
	return mergeSchemas(core, schemas, u.Custom)
}

// UnmarshalJSON - splits URN keyed objects into custom bags
func (u *User) UnmarshalJSON(data []byte) error {
	var alias userAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	custom, err := extractCustom(data)
	if err != nil {
		return err
	}
	*u = User(alias)
	u.Custom = custom
	return nil
}

// mergeSchemas appends "schemas" and the URN bags to an already encoded object
func mergeSchemas(core []byte, schemas []string, custom map[string]Attributes) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(core, &fields); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(schemas)
	if err != nil {
		return nil, err
	}
	fields["schemas"] = raw
	for ns, bag := range custom {
		raw, err := json.Marshal(bag)
		if err != nil {
			return nil, err
		}
		fields[ns] = raw
	}
	return json.Marshal(fields)
}

func extractCustom(data []byte) (map[string]Attributes, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	var custom map[string]Attributes
	for key, raw := range fields {
		if !strings.HasPrefix(strings.ToLower(key), "urn:") {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		bag, err := decodeAttributes(raw)
		if err != nil {
			return nil, err
		}
		if custom == nil {
			custom = make(map[string]Attributes)
		}
		custom[key] = bag
	}
	return custom, nil
}

func decodeNumbers(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
