//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube\.com|youtu\.be)/.+$`)

// NewValidator returns a validator that reports JSON field names and knows the
// youtube_url rule.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("youtube_url", func(fl validator.FieldLevel) bool {
		return youtubeURLPattern.MatchString(fl.Field().String())
	})
	return v
}

// DescribeValidationError renders the first failed rule as "field: reason".
func DescribeValidationError(err error) (field, message string) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "request", "invalid request"
	}
	fe := verrs[0]
	field = fe.Field()
	switch fe.Tag() {
	case "required", "required_with":
		message = "is required"
	case "email":
		message = "must be a valid email address"
	case "alpha":
		message = "must contain letters only"
	case "numeric":
		message = "must contain digits only"
	case "len":
		message = fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		message = fmt.Sprintf("must be at least %s %s", fe.Param(), unit(fe.Kind()))
	case "max":
		message = fmt.Sprintf("must be at most %s %s", fe.Param(), unit(fe.Kind()))
	case "url":
		message = "must be a valid URL"
	case "youtube_url":
		message = "must be a YouTube link"
	default:
		message = "failed " + fe.Tag() + " check"
	}
	return field, message
}

func unit(kind reflect.Kind) string {
	switch kind {
	case reflect.Slice, reflect.Array, reflect.Map:
		return "items"
	default:
		return "characters"
	}
}
