package logic

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gravitl/scimdir/database"
	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/models"
)

var (
	// ErrNotFound - no entity with the requested id
	ErrNotFound = errors.New("not found")
	// ErrDuplicateGroup - a group with the same display name exists
	ErrDuplicateGroup = errors.New("duplicate group")
	// ErrServiceUnavailable - the directory is not initialized or the store is unreachable
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrStoreRead - the store rejected a read
	ErrStoreRead = errors.New("store read error")
	// ErrStoreWrite - the store rejected a write
	ErrStoreWrite = errors.New("store write error")
)

// DirectoryError - a failed directory operation.
// errors.Is matches Kind as well as the wrapped cause.
type DirectoryError struct {
	Kind   error
	Op     string
	Entity models.EntityType
	ID     string
	Err    error
}

func (e *DirectoryError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Entity != "" {
		msg += " (" + string(e.Entity)
		if e.ID != "" {
			msg += " " + e.ID
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is - matches the error kind
func (e *DirectoryError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap - exposes the cause
func (e *DirectoryError) Unwrap() error {
	return e.Err
}

func dirErr(kind error, op string, entity models.EntityType, id string, cause error) error {
	return &DirectoryError{Kind: kind, Op: op, Entity: entity, ID: id, Err: cause}
}

// storeFailure - maps a gateway failure onto the directory taxonomy
func storeFailure(op string, entity models.EntityType, id string, cause error, fallback error) error {
	switch {
	case errors.Is(cause, database.ErrStoreUnavailable):
		return dirErr(ErrServiceUnavailable, op, entity, id, cause)
	case errors.Is(cause, database.ErrStoreRead):
		return dirErr(ErrStoreRead, op, entity, id, cause)
	case errors.Is(cause, database.ErrStoreWrite):
		return dirErr(ErrStoreWrite, op, entity, id, cause)
	}
	return dirErr(fallback, op, entity, id, cause)
}

// ErrorType - the FormatError category for a directory error
func ErrorType(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "notfound"
	case errors.Is(err, ErrDuplicateGroup):
		return "conflict"
	case errors.Is(err, ErrServiceUnavailable):
		return "unavailable"
	}
	return "internal"
}

// FormatError - takes ErrorResponse and uses correct code
func FormatError(err error, errType string) models.ErrorResponse {
	var status = http.StatusInternalServerError
	switch errType {
	case "internal":
		status = http.StatusInternalServerError
	case "badrequest":
		status = http.StatusBadRequest
	case "notfound":
		status = http.StatusNotFound
	case "unauthorized":
		status = http.StatusUnauthorized
	case "forbidden":
		status = http.StatusForbidden
	case "conflict":
		status = http.StatusConflict
	case "unavailable":
		status = http.StatusServiceUnavailable
	}
	return models.ErrorResponse{
		Schemas: []string{models.ErrorSchema},
		Message: err.Error(),
		Code:    status,
	}
}

// ReturnSuccessResponse - processes message and adds header
func ReturnSuccessResponse(response http.ResponseWriter, request *http.Request, message string) {
	var httpResponse models.SuccessResponse
	httpResponse.Code = http.StatusOK
	httpResponse.Message = message
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(http.StatusOK)
	json.NewEncoder(response).Encode(httpResponse)
}

// ReturnErrorResponse - processes error and adds header
func ReturnErrorResponse(response http.ResponseWriter, request *http.Request, errorMessage models.ErrorResponse) {
	if errorMessage.Schemas == nil {
		errorMessage.Schemas = []string{models.ErrorSchema}
	}
	jsonResponse, err := json.Marshal(errorMessage)
	if err != nil {
		panic(err)
	}
	logger.Log(1, "processed request error:", errorMessage.Message)
	response.Header().Set("Content-Type", "application/scim+json")
	response.WriteHeader(errorMessage.Code)
	response.Write(jsonResponse)
}

// ReturnJSON - writes a scim json body with the given status
func ReturnJSON(response http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		ReturnErrorResponse(response, nil, FormatError(fmt.Errorf("could not encode response: %w", err), "internal"))
		return
	}
	response.Header().Set("Content-Type", "application/scim+json")
	response.WriteHeader(status)
	response.Write(data)
}
