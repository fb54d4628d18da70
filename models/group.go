package models

import "encoding/json"

const (
	// CoreGroupSchema - SCIM 2.0 core group schema URN
	CoreGroupSchema = "urn:ietf:params:scim:schemas:core:2.0:Group"
	// GroupCustomSchema - fixed namespace of group custom properties, independent of the app name
	GroupCustomSchema = "urn:okta:custom:group:1.0"
	// GroupDescription - the group custom property the orchestrator reads
	GroupDescription = "description"
)

// Group - a directory group
type Group struct {
	ID          string       `json:"id,omitempty"`
	DisplayName string       `json:"displayName" validate:"required,notblank"`
	Members     []Membership `json:"members,omitempty" validate:"dive"`
	Custom      Attributes   `json:"-"`
}

// Description - returns the group description custom property
func (g Group) Description() string {
	s, _ := g.Custom.GetString(GroupDescription)
	return s
}

// SetDescription - sets the group description custom property
func (g *Group) SetDescription(description string) {
	if g.Custom == nil {
		g.Custom = Attributes{}
	}
	g.Custom.SetString(GroupDescription, description)
}

// Clone - deep copies the group
func (g Group) Clone() Group {
	out := g
	if g.Members != nil {
		out.Members = append([]Membership(nil), g.Members...)
	}
	out.Custom = g.Custom.Clone()
	return out
}

type groupAlias Group

// MarshalJSON - emits the custom bag under the fixed group namespace
func (g Group) MarshalJSON() ([]byte, error) {
	core, err := json.Marshal(groupAlias(g))
	if err != nil {
		return nil, err
	}
	schemas := []string{CoreGroupSchema}
	var custom map[string]Attributes
	if len(g.Custom) > 0 {
		schemas = append(schemas, GroupCustomSchema)
		custom = map[string]Attributes{GroupCustomSchema: g.Custom}
	}
	return mergeSchemas(core, schemas, custom)
}

// UnmarshalJSON - reads the custom bag from the fixed group namespace, other URNs are ignored
func (g *Group) UnmarshalJSON(data []byte) error {
	var alias groupAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	custom, err := extractCustom(data)
	if err != nil {
		return err
	}
	*g = Group(alias)
	g.Custom = custom[GroupCustomSchema]
	return nil
}
