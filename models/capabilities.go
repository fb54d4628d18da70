package models

// ServiceProviderSchema - SCIM service provider config schema URN
const ServiceProviderSchema = "urn:ietf:params:scim:schemas:core:2.0:ServiceProviderConfig"

// ProviderConfigSchema - extension key listing user management capabilities
const ProviderConfigSchema = "urn:okta:schemas:scim:providerconfig:1.0"

// Capability - a user management operation the orchestrator may send to the connector
type Capability string

// capabilities implemented by the directory
const (
	GroupPush            Capability = "GROUP_PUSH"
	ImportNewUsers       Capability = "IMPORT_NEW_USERS"
	ImportProfileUpdates Capability = "IMPORT_PROFILE_UPDATES"
	PushNewUsers         Capability = "PUSH_NEW_USERS"
	PushPasswordUpdates  Capability = "PUSH_PASSWORD_UPDATES"
	PushPendingUsers     Capability = "PUSH_PENDING_USERS"
	PushProfileUpdates   Capability = "PUSH_PROFILE_UPDATES"
	PushUserDeactivation Capability = "PUSH_USER_DEACTIVATION"
	ReactivateUsers      Capability = "REACTIVATE_USERS"
)

// Supported - a SCIM feature toggle
type Supported struct {
	Supported bool `json:"supported"`
}

// ProviderExtension - orchestrator specific part of the provider config
type ProviderExtension struct {
	UserManagementCapabilities []Capability `json:"userManagementCapabilities"`
}

// ServiceProviderConfig - capability document served to the orchestrator
type ServiceProviderConfig struct {
	Schemas        []string          `json:"schemas"`
	Filter         Supported         `json:"filter"`
	Patch          Supported         `json:"patch"`
	Bulk           Supported         `json:"bulk"`
	Sort           Supported         `json:"sort"`
	ChangePassword Supported         `json:"changePassword"`
	Extension      ProviderExtension `json:"urn:okta:schemas:scim:providerconfig:1.0"`
}

// NewServiceProviderConfig - builds the provider config for a capability list
func NewServiceProviderConfig(caps []Capability) ServiceProviderConfig {
	return ServiceProviderConfig{
		Schemas:        []string{ServiceProviderSchema, ProviderConfigSchema},
		Filter:         Supported{Supported: true},
		ChangePassword: Supported{Supported: true},
		Extension:      ProviderExtension{UserManagementCapabilities: caps},
	}
}
