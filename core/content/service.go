package content

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ourson-app/backend/core"
)

var (
	// errors
	ErrSectionNotFound  = errors.New("section not found")
	ErrLevelNotFound    = errors.New("level not found")
	ErrActivityNotFound = errors.New("activity not found")
)

type (
	// Repository is the persistence contract the service depends on but does
	// not implement. Deleting a section cascades to its levels; deleting a
	// level cascades to its activities.
	Repository interface {
		CreateSection(ctx context.Context, section Section) (Section, error)
		QuerySections(ctx context.Context, subject Subject) ([]Section, error)
		GetSectionByID(ctx context.Context, id string) (Section, error)
		QuerySectionNumbers(ctx context.Context, subject Subject) ([]int, error)
		DeleteSection(ctx context.Context, id string) error

		CreateLevel(ctx context.Context, level Level) (Level, error)
		GetLevelByID(ctx context.Context, id string) (Level, error)
		QueryLevelNumbers(ctx context.Context, sectionID string) ([]int, error)
		UpdateLevel(ctx context.Context, level Level) (Level, error)
		DeleteLevel(ctx context.Context, id string) error

		CreateActivities(ctx context.Context, acts []Activity) ([]Activity, error)
		QueryLevelActivities(ctx context.Context, levelID string) ([]Activity, error)
		GetActivityByID(ctx context.Context, id string) (Activity, error)
		UpdateActivity(ctx context.Context, act Activity) (Activity, error)
		DeleteActivity(ctx context.Context, id string) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Sections

func (svc *Service) CreateSection(ctx context.Context, ns NewSection) (Section, error) {
	if err := ns.Validate(); err != nil {
		return Section{}, err
	}

	num := svc.nextSectionNumber(ctx, ns.Subject)
	now := time.Now().UTC()
	section := Section{
		ID:            uuid.New().String(),
		Subject:       ns.Subject,
		Title:         ns.Title,
		SectionNumber: num,
		Color:         ns.Color,
		DisplayOrder:  num,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateSection(ctx, section)
}

func (svc *Service) QuerySections(ctx context.Context, subject Subject) ([]Section, error) {
	return svc.repo.QuerySections(ctx, subject)
}

// QueryAllSections returns the sections of every subject, in subject order.
func (svc *Service) QueryAllSections(ctx context.Context) ([]Section, error) {
	all := make([]Section, 0)
	for _, subject := range Subjects {
		sections, err := svc.repo.QuerySections(ctx, subject)
		if err != nil {
			return nil, errors.Wrapf(err, "querying %s sections", subject)
		}
		all = append(all, sections...)
	}
	return all, nil
}

func (svc *Service) GetSectionByID(ctx context.Context, id string) (Section, error) {
	return svc.repo.GetSectionByID(ctx, id)
}

func (svc *Service) DeleteSection(ctx context.Context, id string) error {
	return svc.repo.DeleteSection(ctx, id)
}

// nextSectionNumber derives the number for a new section of the given
// subject. When the authoritative numbers cannot be obtained the section
// falls back to 1 rather than failing the authoring flow.
func (svc *Service) nextSectionNumber(ctx context.Context, subject Subject) int {
	nums, err := svc.repo.QuerySectionNumbers(ctx, subject)
	if err != nil {
		svc.logger.Warn("falling back to section number 1", errors.Wrap(err, "querying section numbers"))
		return 1
	}
	return NextSectionNumber(nums)
}

// Levels

// NextLevelNumber returns the number a new level in the given section would
// receive, with the same fallback as level creation.
func (svc *Service) NextLevelNumber(ctx context.Context, sectionID string) int {
	nums, err := svc.repo.QueryLevelNumbers(ctx, sectionID)
	if err != nil {
		svc.logger.Warn("falling back to level number 1", errors.Wrap(err, "querying level numbers"))
		return 1
	}
	return NextLevelNumber(nums)
}

// CreateLevel creates a single-activity level. The config must satisfy its
// template's rules before anything is persisted.
func (svc *Service) CreateLevel(ctx context.Context, nl NewLevel) (Level, error) {
	if err := nl.Validate(); err != nil {
		return Level{}, err
	}
	if _, err := svc.repo.GetSectionByID(ctx, nl.SectionID); err != nil {
		return Level{}, err
	}

	num := svc.NextLevelNumber(ctx, nl.SectionID)
	now := time.Now().UTC()
	level := Level{
		ID:           uuid.New().String(),
		SectionID:    nl.SectionID,
		LevelNumber:  num,
		Title:        nl.Title,
		Introduction: nl.Introduction,
		Kind:         LevelSingleActivity,
		Template:     nl.Template,
		Config:       nl.Config,
		DisplayOrder: num,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := level.CheckKind(); err != nil {
		return Level{}, err
	}
	return svc.repo.CreateLevel(ctx, level)
}

// CreateMultiStepLevel drafts, checks and persists a level with ordered
// steps. Every failing step is reported at once; nothing is persisted unless
// all steps pass.
func (svc *Service) CreateMultiStepLevel(ctx context.Context, nml NewMultiStepLevel) (Level, error) {
	if err := nml.Validate(); err != nil {
		return Level{}, err
	}
	if _, err := svc.repo.GetSectionByID(ctx, nml.SectionID); err != nil {
		return Level{}, err
	}

	draft := NewLevelDraft(nml.Steps...)
	num := svc.NextLevelNumber(ctx, nml.SectionID)
	level, err := draft.Compose(nml.SectionID, nml.Title, nml.Introduction, num)
	if err != nil {
		if stepErrs, ok := err.(StepErrors); ok {
			return Level{}, core.NewValidationError(stepErrs, stepFieldErrors(stepErrs)...)
		}
		return Level{}, err
	}

	now := time.Now().UTC()
	level.ID = uuid.New().String()
	level.CreatedAt = now
	level.UpdatedAt = now

	acts := level.Activities
	level.Activities = nil
	created, err := svc.repo.CreateLevel(ctx, level)
	if err != nil {
		return Level{}, errors.Wrap(err, "creating level")
	}

	for i := range acts {
		acts[i].ID = uuid.New().String()
		acts[i].LevelID = created.ID
		acts[i].CreatedAt = now
		acts[i].UpdatedAt = now
	}
	created.Activities, err = svc.repo.CreateActivities(ctx, acts)
	if err != nil {
		return Level{}, errors.Wrap(err, "creating level activities")
	}
	return created, nil
}

func (svc *Service) GetLevelByID(ctx context.Context, id string) (Level, error) {
	level, err := svc.repo.GetLevelByID(ctx, id)
	if err != nil {
		return Level{}, err
	}
	if level.MultiStep() {
		if level.Activities, err = svc.repo.QueryLevelActivities(ctx, id); err != nil {
			return Level{}, errors.Wrap(err, "querying level activities")
		}
	}
	return level, nil
}

func (svc *Service) UpdateLevel(ctx context.Context, id string, ul UpdateLevel) (Level, error) {
	level, err := svc.repo.GetLevelByID(ctx, id)
	if err != nil {
		return Level{}, err
	}
	if err := ul.Validate(level); err != nil {
		return Level{}, err
	}

	if ul.Title != "" {
		level.Title = ul.Title
	}
	if ul.Introduction != "" {
		level.Introduction = ul.Introduction
	}
	if ul.Template != "" {
		level.Template = ul.Template
	}
	if ul.Config != nil {
		level.Config = ul.Config
	}
	if ul.DisplayOrder != nil {
		level.DisplayOrder = *ul.DisplayOrder
	}
	level.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateLevel(ctx, level)
}

func (svc *Service) DeleteLevel(ctx context.Context, id string) error {
	return svc.repo.DeleteLevel(ctx, id)
}

// Activities

func (svc *Service) QueryLevelActivities(ctx context.Context, levelID string) ([]Activity, error) {
	return svc.repo.QueryLevelActivities(ctx, levelID)
}

// AddActivity appends a validated step to an existing multi-step level.
func (svc *Service) AddActivity(ctx context.Context, levelID string, na NewActivity) (Activity, error) {
	if err := na.Validate(); err != nil {
		return Activity{}, err
	}
	level, err := svc.repo.GetLevelByID(ctx, levelID)
	if err != nil {
		return Activity{}, err
	}
	if !level.MultiStep() {
		return Activity{}, core.NewValidationError(nil,
			core.FieldError{Field: "level_id", Error: "level is not multi-step"})
	}

	existing, err := svc.repo.QueryLevelActivities(ctx, levelID)
	if err != nil {
		return Activity{}, errors.Wrap(err, "querying level activities")
	}

	now := time.Now().UTC()
	act := Activity{
		ID:         uuid.New().String(),
		LevelID:    levelID,
		StepNumber: len(existing) + 1,
		Template:   na.Template,
		Config:     na.Config,
		Title:      na.Title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := svc.repo.CreateActivities(ctx, []Activity{act})
	if err != nil {
		return Activity{}, err
	}
	return created[0], nil
}

// AddActivities bulk-appends validated steps to an existing multi-step
// level, numbering them after the steps already present.
func (svc *Service) AddActivities(ctx context.Context, levelID string, nas []NewActivity) ([]Activity, error) {
	level, err := svc.repo.GetLevelByID(ctx, levelID)
	if err != nil {
		return nil, err
	}
	if !level.MultiStep() {
		return nil, core.NewValidationError(nil,
			core.FieldError{Field: "level_id", Error: "level is not multi-step"})
	}

	draft := NewLevelDraft(nas...)
	if err := draft.Check(); err != nil {
		if stepErrs, ok := err.(StepErrors); ok {
			return nil, core.NewValidationError(stepErrs, stepFieldErrors(stepErrs)...)
		}
		return nil, err
	}

	existing, err := svc.repo.QueryLevelActivities(ctx, levelID)
	if err != nil {
		return nil, errors.Wrap(err, "querying level activities")
	}

	now := time.Now().UTC()
	acts := make([]Activity, len(nas))
	for i, na := range nas {
		acts[i] = Activity{
			ID:         uuid.New().String(),
			LevelID:    levelID,
			StepNumber: len(existing) + i + 1,
			Template:   na.Template,
			Config:     na.Config,
			Title:      na.Title,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	return svc.repo.CreateActivities(ctx, acts)
}

func (svc *Service) UpdateActivity(ctx context.Context, id string, ua UpdateActivity) (Activity, error) {
	act, err := svc.repo.GetActivityByID(ctx, id)
	if err != nil {
		return Activity{}, err
	}
	if err := ua.Validate(act); err != nil {
		return Activity{}, err
	}

	if ua.Title != "" {
		act.Title = ua.Title
	}
	if ua.Template != "" {
		act.Template = ua.Template
	}
	if ua.Config != nil {
		act.Config = ua.Config
	}
	act.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateActivity(ctx, act)
}

// DeleteActivity removes a step and renumbers the remaining steps so they
// stay dense and 1-based.
func (svc *Service) DeleteActivity(ctx context.Context, id string) error {
	act, err := svc.repo.GetActivityByID(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.repo.DeleteActivity(ctx, id); err != nil {
		return err
	}

	remaining, err := svc.repo.QueryLevelActivities(ctx, act.LevelID)
	if err != nil {
		return errors.Wrap(err, "querying level activities")
	}
	for i, renumbered := range AssignStepNumbers(remaining) {
		if renumbered.StepNumber == remaining[i].StepNumber {
			continue
		}
		if _, err := svc.repo.UpdateActivity(ctx, renumbered); err != nil {
			return errors.Wrapf(err, "renumbering step %d", renumbered.StepNumber)
		}
	}
	return nil
}

func stepFieldErrors(stepErrs StepErrors) []core.FieldError {
	flds := make([]core.FieldError, len(stepErrs))
	for i, se := range stepErrs {
		flds[i] = core.FieldError{
			Field: "step " + strconv.Itoa(se.Step),
			Error: se.Message,
		}
	}
	return flds
}
