package database

import (
	"errors"
	"fmt"

	perrors "github.com/pkg/errors"
)

var (
	// ErrStoreUnavailable - the backing store could not be reached
	ErrStoreUnavailable = errors.New("backing store unavailable")
	// ErrStoreRead - reading from the backing store failed
	ErrStoreRead = errors.New("backing store read failed")
	// ErrStoreWrite - writing to the backing store failed
	ErrStoreWrite = errors.New("backing store write failed")
)

// StoreError - failure of a gateway call.
// errors.Is matches both Kind and the wrapped cause.
type StoreError struct {
	Op     string
	Record RecordType
	Kind   error
	Err    error
}

func (e *StoreError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Record, e.Kind, e.Err)
}

// Is - matches the failure kind
func (e *StoreError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap - exposes the underlying cause
func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(kind error, op string, rt RecordType, cause error) error {
	if cause == nil {
		return nil
	}
	var se *StoreError
	if errors.As(cause, &se) {
		return cause
	}
	return &StoreError{Op: op, Record: rt, Kind: kind, Err: perrors.WithStack(cause)}
}

func unavailable(op string, cause error) error {
	return storeErr(ErrStoreUnavailable, op, "", cause)
}

func readErr(op string, rt RecordType, cause error) error {
	return storeErr(ErrStoreRead, op, rt, cause)
}

func writeErr(op string, rt RecordType, cause error) error {
	return storeErr(ErrStoreWrite, op, rt, cause)
}
