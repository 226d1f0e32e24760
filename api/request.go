package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/personal-site-backend/errs"
)

const maxJSONBodySize = 10 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report wire names, e.g. first_name instead of FirstName
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewMaxBodySizeExceededError(tooLarge.Limit)
		}
		return errs.NewMalformedPayloadError("JSON", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// validateDTO runs the struct tags of dto and maps the first failure to a 422.
func validateDTO(dto any) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewInvalidFieldError("payload", err.Error())
	}

	first := fieldErrs[0]
	if first.Tag() == "required" {
		return errs.NewMissingRequiredFieldError(first.Field())
	}
	reason := fmt.Sprintf("failed '%s' validation", first.Tag())
	if first.Param() != "" {
		reason = fmt.Sprintf("failed '%s=%s' validation", first.Tag(), first.Param())
	}
	return errs.NewInvalidFieldError(first.Field(), reason)
}
