package models

import jwt "github.com/golang-jwt/jwt/v4"

// ErrorSchema - SCIM error message schema URN
const ErrorSchema = "urn:ietf:params:scim:api:messages:2.0:Error"

// ErrorResponse is struct for error
type ErrorResponse struct {
	Schemas []string `json:"schemas"`
	Code    int      `json:"status"`
	Message string   `json:"detail"`
}

// SuccessResponse is struct for sending a message with code.
type SuccessResponse struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Response interface{} `json:"response,omitempty"`
}

// ProvisioningClaims - claims of a bearer token handed to the orchestrator.
// jwt.StandardClaims is an embedded type to provide expiry time
type ProvisioningClaims struct {
	Client string `json:"client"`
	jwt.StandardClaims
}

// PasswordHookRequest - body of the orchestrator's password import inline hook
type PasswordHookRequest struct {
	Data struct {
		Context struct {
			Credential struct {
				Username string `json:"username" validate:"required"`
				Password string `json:"password" validate:"required"`
			} `json:"credential"`
		} `json:"context"`
	} `json:"data"`
}

// PasswordHookCommand - a single command in the hook reply
type PasswordHookCommand struct {
	Type  string            `json:"type"`
	Value map[string]string `json:"value"`
}

// PasswordHookResponse - reply to the password import inline hook
type PasswordHookResponse struct {
	Commands []PasswordHookCommand `json:"commands"`
}

// credential verification outcomes understood by the orchestrator
const (
	CredentialVerified   = "VERIFIED"
	CredentialUnverified = "UNVERIFIED"
	PasswordHookAction   = "com.okta.action.update"
)

// NewPasswordHookResponse - builds the hook reply for a verification result
func NewPasswordHookResponse(verified bool) PasswordHookResponse {
	outcome := CredentialUnverified
	if verified {
		outcome = CredentialVerified
	}
	return PasswordHookResponse{
		Commands: []PasswordHookCommand{{
			Type:  PasswordHookAction,
			Value: map[string]string{"credential": outcome},
		}},
	}
}
