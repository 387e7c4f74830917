package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
	"github.com/shandysiswandi/otpkit/internal/pkg/strcase"
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps a field name to its message. Field names come from
// the json tag when present, otherwise the snake_case Go name.
type V10ValidationError map[string]string

// Error lists the messages sorted by field so output is stable.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	keys := make([]string, 0, len(vs))
	for k := range vs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, vs[k])
	}
	return strings.Join(msgs, "; ")
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// MarshalJSON encodes the field map.
func (vs V10ValidationError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string(vs))
}

// NewV10Validator constructs a V10Validator with English translations and the
// otpsecret and otpalgorithm rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := v10CustomValidation(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	if err := v.validate.Struct(data); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return err
		}

		errV10 := make(V10ValidationError)
		for _, fe := range validateErrs {
			errV10[fe.Field()] = fe.Translate(v.translator)
		}

		return errV10
	}

	return nil
}

func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strcase.ToLowerSnake(f.Name)
	default:
		return name
	}
}

type customRule struct {
	tag     string
	message string
	fn      validator.Func
}

var customRules = []customRule{
	{
		tag:     "otpsecret",
		message: "{0} must be a non-empty secret",
		fn: func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && otp.SanitizeSecret(s) != ""
		},
	},
	{
		tag:     "otpalgorithm",
		message: "{0} must be one of SHA1, SHA256 or SHA512",
		fn: func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			if !ok {
				return false
			}
			switch strings.ToUpper(strings.ReplaceAll(s, "-", "")) {
			case "", "SHA1", "SHA256", "SHA512":
				return true
			default:
				return false
			}
		},
	},
}

func v10CustomValidation(validate *validator.Validate, enTrans ut.Translator) error {
	for _, rule := range customRules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return fmt.Errorf("register %s: %w", rule.tag, err)
		}

		err := validate.RegisterTranslation(rule.tag, enTrans,
			func(tr ut.Translator) error {
				return tr.Add(rule.tag, rule.message, false)
			},
			func(tr ut.Translator, fe validator.FieldError) string {
				t, err := tr.T(fe.Tag(), fe.Field())
				if err != nil {
					slog.Warn("warning: error translating", "tag", fe.Tag(), "error", err)
					return fe.Error()
				}
				return t
			},
		)
		if err != nil {
			return fmt.Errorf("register %s translation: %w", rule.tag, err)
		}
	}

	return nil
}
