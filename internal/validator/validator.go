package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/reportcard-backend/internal/marksheet"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// values checks dynamic marksheet values, which have no struct to bind to.
var values = govalidator.New()

// Setup registers the validator with English translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)
	}
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the JSON request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst any) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindForm is Bind for form and multipart bodies.
func BindForm(c *gin.Context, dst any) map[string]string {
	if err := c.ShouldBind(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// ValidateValues checks every ruled key of a filled-in marksheet and
// returns key → message for the ones that fail, or nil.
func ValidateValues(rules map[string]marksheet.Rule, vals map[string]string) map[string]string {
	fields := make(map[string]string)
	for key, rule := range rules {
		if msg := checkValue(strings.TrimSpace(vals[key]), rule); msg != "" {
			fields[key] = msg
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func checkValue(raw string, rule marksheet.Rule) string {
	if err := values.Var(raw, "required"); err != nil {
		if rule.Required {
			return "is required"
		}
		return ""
	}
	if !rule.Numeric {
		return ""
	}

	if err := values.Var(raw, "numeric"); err != nil {
		return "must be a number"
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "must be a number"
	}

	lo, hi := formatBound(rule.Min), formatBound(rule.Max)
	if err := values.Var(v, fmt.Sprintf("gte=%s,lte=%s", lo, hi)); err != nil {
		return fmt.Sprintf("must be between %s and %s", lo, hi)
	}
	return ""
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
