package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/validation"
	"github.com/go-playground/validator/v10"
)

const msgTryAgain = "Something went wrong. Please try again."

var validate = newValidator()

// newValidator reports field errors under their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// checkStruct runs the struct tags and converts failures to field errors.
func checkStruct(v any) validation.Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return validation.Errors{"_": err.Error()}
	}
	out := validation.Errors{}
	for _, fe := range verrs {
		out[fe.Field()] = "invalid value (" + fe.Tag() + ")"
	}
	return out
}

// writeError maps domain errors onto status codes. Storage details never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verrs})
	case errors.Is(err, auth.ErrDuplicateEmail):
		writeMessage(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, checkout.ErrEmptyCart):
		writeMessage(w, http.StatusConflict, "Your cart is empty")
	case errors.Is(err, auth.ErrStorage):
		writeMessage(w, http.StatusServiceUnavailable, msgTryAgain)
	default:
		writeMessage(w, http.StatusInternalServerError, msgTryAgain)
	}
}
