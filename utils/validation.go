package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxUploadSize caps menu and category photos.
const MaxUploadSize = 5 << 20

// ImageContentTypes lists the photo formats the storefront can display.
var ImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var (
	ErrImageTooLarge = errors.New("image is larger than 5MB")
	ErrImageType     = errors.New("image must be JPEG, PNG, WebP or GIF")
)

// ValidateFileUpload checks a photo upload before it is sent to the bucket.
func ValidateFileUpload(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadSize {
		return fmt.Errorf("%w (got %d bytes)", ErrImageTooLarge, fh.Size)
	}
	if ct := fh.Header.Get("Content-Type"); !ImageContentTypes[ct] {
		return fmt.Errorf("%w (got %q)", ErrImageType, ct)
	}
	return nil
}

// UseJSONFieldNames makes validation errors report fields by their JSON
// name, so messages match what the storefront and admin panel send.
func UseJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return f.Name
		}
		return name
	})
}

// SanitizeValidationError turns binding errors into one readable line.
// Anything that is not a validator error (malformed JSON, wrong types)
// becomes a generic message.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return strings.Join(messages, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, bound(fe))
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, bound(fe))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	default:
		return field + " is invalid"
	}
}

// bound phrases a size limit for the kind of value it applies to.
func bound(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fe.Param() + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return fe.Param() + " entries"
	default:
		return fe.Param()
	}
}
