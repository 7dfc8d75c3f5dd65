package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxSessionBody = 1 << 20

var ErrBadRequest = errors.New("invalid request")

// FieldError describes one rejected field of a request body.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %d field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrBadRequest }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeSessionRequest reads a strict JSON body. An absent or empty item list
// is reported as ErrNoItems before any schema rule runs.
func decodeSessionRequest(w http.ResponseWriter, r *http.Request) (SessionRequest, error) {
	var req SessionRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSessionBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return SessionRequest{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return SessionRequest{}, fmt.Errorf("%w: trailing data", ErrBadRequest)
	}

	if len(req.Items) == 0 {
		return SessionRequest{}, ErrNoItems
	}

	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return SessionRequest{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		out := &ValidationError{Fields: make([]FieldError, 0, len(ve))}
		for _, fe := range ve {
			out.Fields = append(out.Fields, FieldError{Field: fieldPath(fe.Namespace()), Rule: fe.Tag()})
		}
		return SessionRequest{}, out
	}

	return req, nil
}

// fieldPath drops the struct name from a validator namespace:
// "SessionRequest.items[0].name" becomes "items[0].name".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
