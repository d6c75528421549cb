package content

import (
	"github.com/go-playground/validator/v10"

	"github.com/ourson-app/backend/core"
)

var (
	subjectTag  = "subject"
	subjectText = "invalid subject"

	templateTag  = "template"
	templateText = "unknown activity template"
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(subjectTag, subjectValidation)
	core.RegisterCustomTranslation(subjectTag, subjectText)

	_ = core.Validate.RegisterValidation(templateTag, templateValidation)
	core.RegisterCustomTranslation(templateTag, templateText)
}

// Custom Validators

// subjectValidation checks that the provided subject is a known curriculum.
func subjectValidation(fl validator.FieldLevel) bool {
	subject := Subject(fl.Field().String())
	for _, s := range Subjects {
		if subject == s {
			return true
		}
	}
	return false
}

// templateValidation checks that the provided template id is in the catalog.
func templateValidation(fl validator.FieldLevel) bool {
	return KnownTemplate(TemplateID(fl.Field().String()))
}
