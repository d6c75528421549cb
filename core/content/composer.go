package content

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// nextNumber returns one greater than the maximum of existing, or 1 when
// existing is empty. Gaps are never reused.
func nextNumber(existing []int) int {
	next := 1
	for _, n := range existing {
		if n >= next {
			next = n + 1
		}
	}
	return next
}

// NextLevelNumber computes the level number for a new level given the level
// numbers already present in its target section.
func NextLevelNumber(existing []int) int { return nextNumber(existing) }

// NextSectionNumber computes the section number for a new section given the
// section numbers already present for its subject.
func NextSectionNumber(existing []int) int { return nextNumber(existing) }

// AssignStepNumbers returns a copy of acts with step numbers assigned
// 1-based, dense, following list order. Whatever step numbers the inputs
// carried are discarded.
func AssignStepNumbers(acts []Activity) []Activity {
	out := make([]Activity, len(acts))
	copy(out, acts)
	for i := range out {
		out[i].StepNumber = i + 1
	}
	return out
}

// DraftState tracks a LevelDraft through authoring.
type DraftState int

const (
	DraftEmpty DraftState = iota
	DraftAuthoring
	DraftSubmittable
)

func (s DraftState) String() string {
	switch s {
	case DraftEmpty:
		return "empty"
	case DraftAuthoring:
		return "authoring"
	case DraftSubmittable:
		return "submittable"
	}
	return "unknown"
}

// StepError ties an activity's validation diagnostic to its 1-based position
// within the level, in the terms the author sees.
type StepError struct {
	Step     int        `json:"step"`
	Template TemplateID `json:"template"`
	Message  string     `json:"message"`
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", e.Step, e.Template, e.Message)
}

// StepErrors aggregates the failures of every invalid step in a draft.
type StepErrors []StepError

func (errs StepErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// LevelDraft assembles a multi-step level: Empty -> Authoring (steps being
// added, moved, removed) -> Submittable (every step passes validation).
// A draft holds no persistent state; Compose produces the next entity to be
// persisted by the storage layer.
type LevelDraft struct {
	steps []NewActivity
}

func NewLevelDraft(steps ...NewActivity) *LevelDraft {
	d := &LevelDraft{}
	for _, s := range steps {
		d.Add(s)
	}
	return d
}

func (d *LevelDraft) Len() int { return len(d.steps) }

func (d *LevelDraft) Steps() []NewActivity {
	steps := make([]NewActivity, len(d.steps))
	copy(steps, d.steps)
	return steps
}

func (d *LevelDraft) Add(step NewActivity) {
	d.steps = append(d.steps, step)
}

func (d *LevelDraft) Remove(i int) error {
	if i < 0 || i >= len(d.steps) {
		return errors.Errorf("no step at position %d", i+1)
	}
	d.steps = append(d.steps[:i], d.steps[i+1:]...)
	return nil
}

func (d *LevelDraft) Move(from, to int) error {
	if from < 0 || from >= len(d.steps) {
		return errors.Errorf("no step at position %d", from+1)
	}
	if to < 0 || to >= len(d.steps) {
		return errors.Errorf("no step at position %d", to+1)
	}
	step := d.steps[from]
	rest := append(d.steps[:from:from], d.steps[from+1:]...)
	d.steps = append(rest[:to:to], append([]NewActivity{step}, rest[to:]...)...)
	return nil
}

// State derives the draft's position in the authoring lifecycle.
func (d *LevelDraft) State() DraftState {
	if len(d.steps) == 0 {
		return DraftEmpty
	}
	if d.Check() != nil {
		return DraftAuthoring
	}
	return DraftSubmittable
}

// Check validates every step. Unlike the per-activity validator, Check does
// not stop at the first failing step: it reports all failing steps at once,
// each carrying that step's first violated rule and 1-based position. An
// unknown template id aborts immediately — it indicates a client and catalog
// out of sync, and no per-field diagnostic can be produced for it.
func (d *LevelDraft) Check() error {
	var stepErrs StepErrors
	for i, step := range d.steps {
		if _, err := Lookup(step.Template); err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
		if err := ValidateActivity(step.Template, step.Config); err != nil {
			stepErrs = append(stepErrs, StepError{Step: i + 1, Template: step.Template, Message: err.Error()})
		}
	}
	if len(stepErrs) > 0 {
		return stepErrs
	}
	return nil
}

// Compose builds the multi-step Level from the draft. The draft must be
// submittable: any single failing step blocks the whole level and Compose
// returns that draft's StepErrors instead.
func (d *LevelDraft) Compose(sectionID, title, introduction string, levelNumber int) (Level, error) {
	if len(d.steps) == 0 {
		return Level{}, errors.New("a level needs at least one step")
	}
	if err := d.Check(); err != nil {
		return Level{}, err
	}

	acts := make([]Activity, len(d.steps))
	for i, step := range d.steps {
		acts[i] = Activity{
			Template: step.Template,
			Config:   step.Config,
			Title:    step.Title,
		}
	}

	return Level{
		SectionID:    sectionID,
		LevelNumber:  levelNumber,
		Title:        title,
		Introduction: introduction,
		Kind:         LevelMultiStep,
		DisplayOrder: levelNumber,
		Activities:   AssignStepNumbers(acts),
	}, nil
}
