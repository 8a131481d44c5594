package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	validate     *validator.Validate
	validateOnce sync.Once
	ginOnce      sync.Once
)

// ValidUsername reports whether s uses only letters, digits and . @ + - _.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// ValidSlug reports whether s uses only ASCII letters, digits, - and _.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return ValidSlug(fl.Field().String())
	})
}

// GetValidator returns the shared validator used for `validate` struct tags.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		configure(validate)
	})
	return validate
}

// RegisterGinValidations installs the custom tags and json field naming on
// gin's binding validator so request DTOs can use `binding:"username"`.
func RegisterGinValidations() {
	ginOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			configure(v)
		}
	})
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// RequestValidationError aggregates every failed rule of one struct.
type RequestValidationError struct {
	errors []FieldError
}

func (e *RequestValidationError) Errors() []FieldError {
	return e.errors
}

func (e *RequestValidationError) Error() string {
	if len(e.errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.errors))
	for i, fe := range e.errors {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Fields maps field names to messages.
func (e *RequestValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.errors))
	for _, fe := range e.errors {
		out[fe.Field] = fe.Message
	}
	return out
}

// ValidateStruct validates s with the shared validator.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}
	if verr := FromValidator(err); verr != nil {
		return verr
	}
	return err
}

// FromValidator converts validator.ValidationErrors (possibly wrapped) to a
// RequestValidationError. It returns nil for any other error.
func FromValidator(err error) *RequestValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		field := fieldPath(fe)
		out[i] = FieldError{Field: field, Tag: fe.Tag(), Message: translate(field, fe)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return &RequestValidationError{errors: out}
}

// fieldPath drops the root struct name from the namespace:
// createRecipeRequest.ingredients[0].amount -> ingredients[0].amount
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"username": "%s may contain only letters, digits and @/./+/-/_",
	"slug":     "%s may contain only latin letters, digits, - and _",
	"hexcolor": "%s must be a hex color such as #49B64E",
	"uuid":     "%s must be a valid UUID",
}

var paramTemplates = map[string]string{
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
	"len":   "%s must have length %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"oneof": "%s must be one of: %s",
}

func translate(field string, fe validator.FieldError) string {
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := paramTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}
	return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
}
