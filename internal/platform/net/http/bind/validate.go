// Package bind decodes request input into typed structs and validates it
package bind

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
)

// Validator holds the process validator and its english translator
type Validator struct {
	V     *validator.Validate
	Trans ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *Validator
)

// Get returns the shared validator, building it on first use
func Get() *Validator {
	vOnce.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		// messages name the query parameter, not the Go field
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"query", "json"} {
				tag, _, _ := strings.Cut(fld.Tag.Get(key), ",")
				if tag != "" && tag != "-" {
					return tag
				}
			}
			return fld.Name
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		short(v, trans, "min", "{0} must be at least {1}")
		short(v, trans, "max", "{0} must be at most {1}")
		short(v, trans, "datetime", "{0} must be a date formatted YYYY-MM-DD")
		short(v, trans, "oneof", "{0} must be one of [{1}]")

		vSvc = &Validator{V: v, Trans: trans}
	})
	return vSvc
}

// Struct validates dst and maps the first failure to a validation error naming its field
func (s *Validator) Struct(dst any) error {
	err := s.V.Struct(dst)
	if err == nil {
		return nil
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Newf(perr.ErrorCodeValidation, "validation error")
	}
	field, msg := s.FieldAndMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// FieldAndMessage returns the first failing field and its translated message
func (s *Validator) FieldAndMessage(err error) (field, message string) {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(s.Trans)
	}
	return "", err.Error()
}

func short(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
