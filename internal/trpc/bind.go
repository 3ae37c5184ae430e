package trpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// uuid_ci accepts the canonical 36-character form in either case.
	_ = v.RegisterValidation("uuid_ci", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	})
	return v
}

// Bind decodes a procedure input into T and validates it using `validate`
// struct tags. Failures are BAD_REQUEST errors carrying one Issue per field.
func Bind[T any](input json.RawMessage) (T, error) {
	var out T
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if err := dec.Decode(&out); err != nil {
			return out, decodeError(err)
		}
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			issues := make([]Issue, 0, len(verrs))
			for _, fe := range verrs {
				issues = append(issues, Issue{Path: issuePath(fe), Message: issueMessage(fe)})
			}
			return out, validationError(issues)
		}
		return out, &Error{Code: CodeBadRequest, Message: err.Error(), Cause: err}
	}
	return out, nil
}

func decodeError(err error) *Error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return validationError([]Issue{{
			Path:    typeErr.Field,
			Message: fmt.Sprintf("Expected %s, received %s", typeErr.Type.Kind(), typeErr.Value),
		}})
	}
	return &Error{Code: CodeBadRequest, Message: "invalid input: " + err.Error(), Cause: err}
}

// issuePath drops the struct name from the validator namespace.
func issuePath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "uuid", "uuid4", "uuid_ci":
		return "Invalid uuid"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
