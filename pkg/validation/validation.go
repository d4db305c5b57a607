package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of a validation failure list.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

func init() {
	// report json field names instead of Go struct field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// Errors converts a binding error into a field-level list. messages maps a
// json field name, or "field.rule" for one rule, to the reported message.
func Errors(err error, messages map[string]string) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Msg: "Invalid request body"}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg, ok = messages[fe.Field()]
		}
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out = append(out, FieldError{Msg: msg, Param: fe.Field()})
	}
	return out
}
