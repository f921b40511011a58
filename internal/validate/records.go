package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/engYuns/rengintech/internal/domain"
)

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when an insert payload or patch is malformed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "invalid " + strings.Join(names, ", ")
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Input is an untyped request body: decoded JSON or flattened form values.
type Input map[string]any

func (in Input) str(key string) (string, bool, bool) {
	v, present := in[key]
	if !present || v == nil {
		return "", present, true
	}
	s, ok := v.(string)
	return s, true, ok
}

func (in Input) required(e *ValidationError, key string, max int) string {
	raw, _, ok := in.str(key)
	if !ok {
		e.add(key, "must be a string")
		return ""
	}
	s, ok := Text(raw, max)
	if !ok {
		e.add(key, fmt.Sprintf("required, at most %d characters", max))
	}
	return s
}

func (in Input) optional(e *ValidationError, key string, max int) *string {
	if in[key] == nil {
		return nil
	}
	raw, _, ok := in.str(key)
	if !ok {
		e.add(key, "must be a string")
		return nil
	}
	s, ok := Text(raw, max)
	if !ok {
		e.add(key, fmt.Sprintf("must be non-empty, at most %d characters", max))
		return nil
	}
	return &s
}

// integer accepts JSON numbers and numeric strings (form posts).
func (in Input) integer(key string) (int, bool) {
	switch v := in[key].(type) {
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e9 {
			return int(v), true
		}
	case int:
		return v, true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Admin validates an admin insert payload. The password is returned in clear
// and hashed by the caller.
func Admin(in Input) (domain.NewAdmin, error) {
	e := &ValidationError{}
	username := in.required(e, "username", 64)
	raw, _, ok := in.str("password")
	if !ok || !Password(raw) {
		e.add("password", "8-72 characters with at least one letter and one digit")
	}
	return domain.NewAdmin{Username: username, Password: raw}, e.orNil()
}

func Client(in Input) (domain.NewClient, error) {
	e := &ValidationError{}
	c := domain.NewClient{
		Name:        in.required(e, "name", maxShort),
		Category:    in.required(e, "category", maxShort),
		Description: in.required(e, "description", maxLong),
		LogoURL:     in.optional(e, "logoUrl", 2048),
	}
	return c, e.orNil()
}

// ClientPatch validates a partial client update. Supplied fields obey the
// insert rules; server-assigned fields are ignored.
func ClientPatch(in Input) (domain.ClientPatch, error) {
	e := &ValidationError{}
	p := domain.ClientPatch{
		Name:        in.optional(e, "name", maxShort),
		Category:    in.optional(e, "category", maxShort),
		Description: in.optional(e, "description", maxLong),
		LogoURL:     in.optional(e, "logoUrl", 2048),
	}
	if len(e.Fields) == 0 && p.Empty() {
		e.add("body", "no updatable fields supplied")
	}
	return p, e.orNil()
}

func Review(in Input) (domain.NewReview, error) {
	e := &ValidationError{}
	r := domain.NewReview{
		Name:    in.required(e, "name", maxShort),
		Company: in.required(e, "company", maxShort),
		Text:    in.required(e, "text", maxLong),
	}
	if in["rating"] == nil {
		e.add("rating", "required")
	} else if n, ok := in.integer("rating"); !ok || n < 1 || n > 5 {
		e.add("rating", "must be an integer between 1 and 5")
	} else {
		r.Rating = n
	}
	return r, e.orNil()
}

func Booking(in Input) (domain.NewBooking, error) {
	e := &ValidationError{}
	b := domain.NewBooking{
		Name:    in.required(e, "name", maxShort),
		Message: in.required(e, "message", maxLong),
	}
	raw, _, _ := in.str("email")
	if s, ok := Email(raw); ok {
		b.Email = s
	} else {
		e.add("email", "must be a valid email address")
	}
	raw, _, _ = in.str("phone")
	if s, ok := Phone(raw); ok {
		b.Phone = s
	} else {
		e.add("phone", "must be a phone number")
	}
	raw, _, _ = in.str("service")
	if _, ok := domain.ServiceLabel(strings.TrimSpace(raw)); ok {
		b.Service = strings.TrimSpace(raw)
	} else {
		e.add("service", "unknown service")
	}
	return b, e.orNil()
}
