package pricing

import (
	"errors"
	"strings"
)

// ErrInvalidConfiguration is returned when admin settings cannot be
// interpreted, for example a malformed opening time.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Problem codes reported by Checkout and Quote.
const (
	CodeEmptyCart           = "empty_cart"
	CodeInvalidItem         = "invalid_item"
	CodeItemUnavailable     = "item_unavailable"
	CodeNameRequired        = "name_required"
	CodeInvalidPhone        = "invalid_phone"
	CodeAddressRequired     = "address_required"
	CodeMissingCoordinates  = "missing_coordinates"
	CodeOutOfZone           = "out_of_zone"
	CodeDeliveryDisabled    = "delivery_disabled"
	CodeLocationUnavailable = "location_unavailable"
	CodeTermsNotAccepted    = "terms_not_accepted"
	CodeStoreClosed         = "store_closed"
	CodeUnknownMethod       = "unknown_method"
)

// Problem is one reason an order cannot be placed. Message is customer copy.
type Problem struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError carries every problem found in a single pass.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Message)
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether a problem with the given code was recorded.
func (e *ValidationError) Has(code string) bool {
	for _, p := range e.Problems {
		if p.Code == code {
			return true
		}
	}
	return false
}

type problems []Problem

func (ps *problems) add(field, code, message string) {
	*ps = append(*ps, Problem{Field: field, Code: code, Message: message})
}

func (ps problems) err() error {
	if len(ps) == 0 {
		return nil
	}
	return &ValidationError{Problems: ps}
}
