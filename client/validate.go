package client

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/adamwoolhether/goluno/client/throttle"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("client: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

// FieldError is a single invalid field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors is every invalid field found by one validation.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}

// Validate checks cfg against its declared tags, and that its burst
// window fits a time.Duration.
func (cfg Config) Validate() error {
	if err := check(cfg); err != nil {
		return err
	}

	if _, err := throttle.WindowLength(cfg.MaxRate, cfg.MaxBurst); err != nil {
		return &ConfigError{Fields: FieldErrors{{Field: "max_rate", Err: err.Error()}}, Err: ErrConfiguration}
	}

	return nil
}

// validateSpec normalizes the method and rejects malformed specs before
// they reach the gate.
func validateSpec(spec *Spec) error {
	spec.Method = strings.ToUpper(spec.Method)
	if spec.Method == "" {
		spec.Method = http.MethodGet
	}

	if err := check(spec); err != nil {
		return err
	}

	var fields FieldErrors
	if spec.Method == http.MethodGet && len(spec.Body) > 0 {
		fields = append(fields, FieldError{Field: "body", Err: "body must be empty for GET"})
	}
	switch {
	case (spec.Method == http.MethodPut || spec.Method == http.MethodDelete) && spec.ID == "":
		fields = append(fields, FieldError{Field: "id", Err: "id is required for " + spec.Method})
	case strings.Contains(spec.ID, "/"):
		fields = append(fields, FieldError{Field: "id", Err: "id must be a single path segment"})
	}
	if len(fields) > 0 {
		return &ConfigError{Fields: fields, Err: ErrConfiguration}
	}

	return nil
}

func check(val any) error {
	if err := validate.Struct(val); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return &ConfigError{Err: fmt.Errorf("%w: %w", ErrConfiguration, err)}
		}

		var fields FieldErrors
		for _, verror := range verrors {
			field := FieldError{
				Field: verror.Field(),
				Err:   customErrForTag(verror.Tag(), verror),
			}
			fields = append(fields, field)
		}
		return &ConfigError{Fields: fields, Err: ErrConfiguration}
	}

	return nil
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required":
		return "This field is required"
	default:
		return verror.Translate(translator)
	}
}
