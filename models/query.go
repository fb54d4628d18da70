package models

// ListResponseSchema - SCIM list response schema URN
const ListResponseSchema = "urn:ietf:params:scim:api:messages:2.0:ListResponse"

// PageRequest - optional start index and page size sent with list requests.
// Only the start index is echoed back; results are never truncated.
type PageRequest struct {
	StartIndex int `json:"startIndex"`
	Count      int `json:"count"`
}

// UserQueryResponse - result of a user list or filter query
type UserQueryResponse struct {
	Schemas      []string `json:"schemas"`
	TotalResults int      `json:"totalResults"`
	StartIndex   int      `json:"startIndex,omitempty"`
	ItemsPerPage int      `json:"itemsPerPage,omitempty"`
	Resources    []User   `json:"Resources"`
}

// GroupQueryResponse - result of a group list query
type GroupQueryResponse struct {
	Schemas      []string `json:"schemas"`
	TotalResults int      `json:"totalResults"`
	StartIndex   int      `json:"startIndex,omitempty"`
	ItemsPerPage int      `json:"itemsPerPage,omitempty"`
	Resources    []Group  `json:"Resources"`
}

// NewUserQueryResponse - wraps users with pagination metadata
func NewUserQueryResponse(users []User, total int, page *PageRequest) UserQueryResponse {
	if users == nil {
		users = []User{}
	}
	resp := UserQueryResponse{
		Schemas:      []string{ListResponseSchema},
		TotalResults: total,
		Resources:    users,
	}
	if page != nil {
		resp.StartIndex = page.StartIndex
		resp.ItemsPerPage = len(users)
	}
	return resp
}

// NewGroupQueryResponse - wraps groups with pagination metadata
func NewGroupQueryResponse(groups []Group, total int, page *PageRequest) GroupQueryResponse {
	if groups == nil {
		groups = []Group{}
	}
	resp := GroupQueryResponse{
		Schemas:      []string{ListResponseSchema},
		TotalResults: total,
		Resources:    groups,
	}
	if page != nil {
		resp.StartIndex = page.StartIndex
		resp.ItemsPerPage = len(groups)
	}
	return resp
}
