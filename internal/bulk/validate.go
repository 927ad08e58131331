package bulk

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	rowValidator *validator.Validate
	trans        ut.Translator
)

func init() {
	rowValidator = validator.New()
	rowValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := csvName(f); name != "" {
			return name
		}
		return f.Name
	})

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(rowValidator, trans)
}

// validateRow checks the validate tags of row and joins the translated
// messages.
func validateRow(row any) error {
	err := rowValidator.Struct(row)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return errors.New(strings.Join(msgs, "; "))
}
