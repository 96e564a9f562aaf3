package flow

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

var (
	ErrClosed          = errors.New("chanflow: channel closed")
	ErrNilFunc         = errors.New("chanflow: nil stage function")
	ErrNilInput        = errors.New("chanflow: nil stage input")
	ErrInvalidCapacity = errors.New("chanflow: capacity must be positive")
	ErrUnknownPolicy   = errors.New("chanflow: unknown overflow policy")
	ErrStagePanic      = errors.New("chanflow: stage function panicked")
)

// StageError carries a panic recovered from a stage function.
type StageError struct {
	StageID uuid.UUID
	Role    Role
	Name    string
	Cause   error
}

func (e *StageError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s stage %q (%s): %v", e.Role, e.Name, e.StageID, e.Cause)
	}
	return fmt.Sprintf("%s stage %s: %v", e.Role, e.StageID, e.Cause)
}

func (e *StageError) Unwrap() []error {
	return []error{ErrStagePanic, e.Cause}
}

// PanicError turns a recovered value into an error.
func PanicError(recovered any) error {
	if err, ok := recovered.(error); ok {
		return err
	}
	return fmt.Errorf("%v", recovered)
}

// IsNil reports whether i is nil or an interface holding a nil pointer.
func IsNil(i interface{}) bool {
	if i == nil {
		return true
	}
	v := reflect.ValueOf(i)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// GetErrors flattens err, nested errors.Join results included, into the
// errors it carries. A *StageError stays one part although it unwraps to
// ErrStagePanic and its cause.
func GetErrors(err error) []error {
	if IsNil(err) {
		return []error{}
	}
	if se, ok := err.(*StageError); ok {
		return []error{se}
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}

	res := []error{}
	for _, e := range joined.Unwrap() {
		res = append(res, GetErrors(e)...)
	}
	return res
}
