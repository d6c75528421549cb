package content

import (
	"time"

	"github.com/ourson-app/backend/core"
)

// Section is a subject-scoped, ordered grouping of levels. It exclusively
// owns its levels; deleting a section cascades.
type Section struct {
	ID            string    `json:"id" db:"id"`
	Subject       Subject   `json:"subject" db:"subject"`
	Title         string    `json:"title" db:"title"`
	SectionNumber int       `json:"section_number" db:"section_number"` // unique within subject
	Color         string    `json:"color,omitempty" db:"color"`
	DisplayOrder  int       `json:"display_order" db:"display_order"`
	Levels        []Level   `json:"levels,omitempty" db:"-"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// LevelKind discriminates the two modes a level can be in. A level holds
// either a single (template, config) pair or an ordered list of activities,
// never both.
type LevelKind string

const (
	LevelSingleActivity LevelKind = "single"
	LevelMultiStep      LevelKind = "steps"
)

// Level is a lesson unit within a section. LevelNumber is meaningful only
// relative to the owning section.
type Level struct {
	ID           string    `json:"id" db:"id"`
	SectionID    string    `json:"section_id" db:"section_id"`
	LevelNumber  int       `json:"level_number" db:"level_number"` // unique within section
	Title        string    `json:"title" db:"title"`
	Introduction string    `json:"introduction,omitempty" db:"introduction"`
	Kind         LevelKind `json:"kind" db:"kind"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC

	// single-activity mode only
	Template TemplateID `json:"template,omitempty" db:"template"`
	Config   Config     `json:"config,omitempty" db:"config"`

	// multi-step mode only; exclusively owned
	Activities []Activity `json:"activities,omitempty" db:"-"`
}

// MultiStep reports whether the level is in multi-step mode.
func (l Level) MultiStep() bool { return l.Kind == LevelMultiStep }

// CheckKind enforces the single/multi-step union: exactly one side may be
// populated, matching the Kind discriminant.
func (l Level) CheckKind() error {
	switch l.Kind {
	case LevelSingleActivity:
		if l.Template == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "template", Error: "this field is required"})
		}
		if len(l.Activities) > 0 {
			return core.NewValidationError(nil, core.FieldError{Field: "activities", Error: "a single-activity level cannot carry steps"})
		}
	case LevelMultiStep:
		if l.Template != "" || len(l.Config) > 0 {
			return core.NewValidationError(nil, core.FieldError{Field: "template", Error: "a multi-step level cannot carry its own template"})
		}
	default:
		return core.NewValidationError(nil, core.FieldError{Field: "kind", Error: "unknown level kind"})
	}
	return nil
}

// Activity is one concrete, validated instance of a template within a
// multi-step level. StepNumber is dense and 1-based across the activities of
// one level; the composer is the only writer.
type Activity struct {
	ID         string     `json:"id" db:"id"`
	LevelID    string     `json:"level_id" db:"level_id"`
	StepNumber int        `json:"step_number" db:"step_number"`
	Template   TemplateID `json:"template" db:"template"`
	Config     Config     `json:"config" db:"config"`
	Title      string     `json:"title,omitempty" db:"title"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"` // UTC
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"` // UTC
}

// Input structs

// NewSection contains information needed to create a new Section.
// SectionNumber and DisplayOrder are derived, not supplied.
type NewSection struct {
	Subject Subject `json:"subject" validate:"required,subject"`
	Title   string  `json:"title" validate:"required"`
	Color   string  `json:"color" validate:"omitempty,hexcolor"`
}

func (ns *NewSection) Validate() error {
	ns.Title = core.CleanString(ns.Title)
	ns.Color = core.CleanString(ns.Color, true /* lower */)
	return core.Validate.Struct(ns)
}

// NewActivity is one authored step: a template and its configuration.
type NewActivity struct {
	Template TemplateID `json:"template" validate:"required,template"`
	Title    string     `json:"title"`
	Config   Config     `json:"config" validate:"required"`
}

func (na *NewActivity) Validate() error {
	na.Title = core.CleanString(na.Title)
	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	if err := ValidateActivity(na.Template, na.Config); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "config", Error: err.Error()})
	}
	return nil
}

// NewLevel creates a single-activity level. LevelNumber is derived.
type NewLevel struct {
	SectionID    string     `json:"section_id" validate:"required,uuid4"`
	Title        string     `json:"title" validate:"required"`
	Introduction string     `json:"introduction"`
	Template     TemplateID `json:"template" validate:"required,template"`
	Config       Config     `json:"config" validate:"required"`
}

func (nl *NewLevel) Validate() error {
	nl.Title = core.CleanString(nl.Title)
	nl.Introduction = core.CleanString(nl.Introduction)
	if err := core.Validate.Struct(nl); err != nil {
		return err
	}
	if err := ValidateActivity(nl.Template, nl.Config); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "config", Error: err.Error()})
	}
	return nil
}

// NewMultiStepLevel creates a level composed of ordered steps.
type NewMultiStepLevel struct {
	SectionID    string        `json:"section_id" validate:"required,uuid4"`
	Title        string        `json:"title" validate:"required"`
	Introduction string        `json:"introduction"`
	Steps        []NewActivity `json:"steps" validate:"required,min=1"`
}

// Validate checks the level shell only; per-step configs are checked by the
// LevelDraft so that every failing step is reported at once.
func (nml *NewMultiStepLevel) Validate() error {
	nml.Title = core.CleanString(nml.Title)
	nml.Introduction = core.CleanString(nml.Introduction)
	return core.Validate.Struct(nml)
}

// UpdateLevel defines what information may be provided to modify an existing
// Level. Zero-valued fields are left unchanged.
type UpdateLevel struct {
	Title        string     `json:"title"`
	Introduction string     `json:"introduction"`
	Template     TemplateID `json:"template" validate:"omitempty,template"`
	Config       Config     `json:"config"`
	DisplayOrder *int       `json:"display_order"`
}

func (ul *UpdateLevel) Validate(orig Level) error {
	ul.Title = core.CleanString(ul.Title)
	ul.Introduction = core.CleanString(ul.Introduction)
	if err := core.Validate.Struct(ul); err != nil {
		return err
	}
	if ul.Template != "" || ul.Config != nil {
		if orig.MultiStep() {
			return core.NewValidationError(nil,
				core.FieldError{Field: "template", Error: "a multi-step level cannot carry its own template"})
		}
		tmpl := orig.Template
		if ul.Template != "" {
			tmpl = ul.Template
		}
		cfg := orig.Config
		if ul.Config != nil {
			cfg = ul.Config
		}
		if err := ValidateActivity(tmpl, cfg); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "config", Error: err.Error()})
		}
	}
	return nil
}

// UpdateActivity defines what information may be provided to modify an
// existing Activity. Step numbers are managed by the composer and cannot be
// set directly.
type UpdateActivity struct {
	Title    string     `json:"title"`
	Template TemplateID `json:"template" validate:"omitempty,template"`
	Config   Config     `json:"config"`
}

func (ua *UpdateActivity) Validate(orig Activity) error {
	ua.Title = core.CleanString(ua.Title)
	if err := core.Validate.Struct(ua); err != nil {
		return err
	}
	tmpl := orig.Template
	if ua.Template != "" {
		tmpl = ua.Template
	}
	cfg := orig.Config
	if ua.Config != nil {
		cfg = ua.Config
	}
	if err := ValidateActivity(tmpl, cfg); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "config", Error: err.Error()})
	}
	return nil
}
