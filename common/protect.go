package common

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// ProtectedString is a type for security-sensitive fields such as bearer
// tokens. It hides its value when printed or marshalled to JSON, so a token
// that ends up in a log line shows as a placeholder.
type ProtectedString struct {
	value *string
}

var message = "<protected>"

func NewProtectedString(val string) *ProtectedString {
	return &ProtectedString{
		value: &val,
	}
}

// Reveal returns the secret value.
func (p *ProtectedString) Reveal() string {
	if p == nil || p.value == nil {
		return ""
	}
	return *p.value
}

// String returns the string representation of the type. Override it to avoid
// logging the secret value.
func (p *ProtectedString) String() string {
	return message
}

// GoString covers the %#v verb, which otherwise bypasses String.
func (p *ProtectedString) GoString() string {
	return message
}

var _ fmt.Stringer = (*ProtectedString)(nil)
var _ fmt.GoStringer = (*ProtectedString)(nil)

// MarshalJSON returns the JSON representation of the type. Many loggers will
// log JSON representation of types. Override it to avoid logging the secret
// value.
func (p *ProtectedString) MarshalJSON() ([]byte, error) {
	return json.Marshal(&message)
}

var _ json.Marshaler = (*ProtectedString)(nil)

// UnmarshalText can unmarshal a textual representation of a ProtectedString.
// Needed for use with the envconfig library:
// https://github.com/kelseyhightower/envconfig
func (p *ProtectedString) UnmarshalText(text []byte) error {
	val := string(text)
	p.value = &val
	return nil
}

var _ encoding.TextUnmarshaler = (*ProtectedString)(nil)
