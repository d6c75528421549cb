package content

import (
	"testing"

	"github.com/pkg/errors"
)

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name     string
		existing []int
		want     int
	}{
		{"empty", nil, 1},
		{"dense", []int{1, 2, 3}, 4},
		{"gaps are not reused", []int{1, 2, 5}, 6},
		{"unordered", []int{5, 1, 3}, 6},
		{"single", []int{7}, 8},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := NextLevelNumber(tt.existing); got != tt.want {
				t.Errorf("NextLevelNumber(%v) = %d, want %d", tt.existing, got, tt.want)
			}
			if got := NextSectionNumber(tt.existing); got != tt.want {
				t.Errorf("NextSectionNumber(%v) = %d, want %d", tt.existing, got, tt.want)
			}
		})
	}
}

func TestAssignStepNumbers(t *testing.T) {
	acts := []Activity{
		{Template: TemplateVideo, StepNumber: 9},
		{Template: TemplateStory, StepNumber: 0},
		{Template: TemplateMemoryCard, StepNumber: 2},
	}
	got := AssignStepNumbers(acts)
	for i, act := range got {
		if act.StepNumber != i+1 {
			t.Errorf("step %d: StepNumber = %d, want %d", i, act.StepNumber, i+1)
		}
	}
	// input untouched
	if acts[0].StepNumber != 9 {
		t.Errorf("input mutated: acts[0].StepNumber = %d, want 9", acts[0].StepNumber)
	}
}

func validStep(t TemplateID) NewActivity {
	return NewActivity{Template: t, Config: validConfigs()[t]}
}

func TestLevelDraftStates(t *testing.T) {
	d := NewLevelDraft()
	if got := d.State(); got != DraftEmpty {
		t.Fatalf("empty draft State() = %v, want empty", got)
	}

	d.Add(NewActivity{Template: TemplateReorderWords, Config: Config{
		"words": []interface{}{"cat", "sat"},
	}})
	if got := d.State(); got != DraftAuthoring {
		t.Errorf("draft with invalid step State() = %v, want authoring", got)
	}

	d = NewLevelDraft(validStep(TemplateReorderWords), validStep(TemplateSolveEquation))
	if got := d.State(); got != DraftSubmittable {
		t.Errorf("draft with valid steps State() = %v, want submittable", got)
	}

	if err := d.Remove(0); err != nil {
		t.Fatalf("Remove(0) error: %v", err)
	}
	if err := d.Remove(0); err != nil {
		t.Fatalf("Remove(0) error: %v", err)
	}
	if got := d.State(); got != DraftEmpty {
		t.Errorf("drained draft State() = %v, want empty", got)
	}
}

func TestLevelDraftMove(t *testing.T) {
	d := NewLevelDraft(validStep(TemplateVideo), validStep(TemplateStory), validStep(TemplateMemoryCard))
	if err := d.Move(2, 0); err != nil {
		t.Fatalf("Move(2, 0) error: %v", err)
	}
	want := []TemplateID{TemplateMemoryCard, TemplateVideo, TemplateStory}
	for i, step := range d.Steps() {
		if step.Template != want[i] {
			t.Errorf("steps[%d] = %q, want %q", i, step.Template, want[i])
		}
	}

	if err := d.Move(0, 5); err == nil {
		t.Error("Move(0, 5) = nil, want error")
	}
	if err := d.Remove(7); err == nil {
		t.Error("Remove(7) = nil, want error")
	}
}

func TestLevelDraftCheck_reportsEveryFailingStep(t *testing.T) {
	d := NewLevelDraft(
		NewActivity{Template: TemplateVideo, Config: Config{"videoUrl": " "}},
		validStep(TemplateStory),
		NewActivity{Template: TemplateLetterTracing, Config: Config{"letter": "AB", "prompt": "Trace"}},
	)

	err := d.Check()
	var stepErrs StepErrors
	if !errors.As(err, &stepErrs) {
		t.Fatalf("Check() error = %T, want StepErrors", err)
	}
	if len(stepErrs) != 2 {
		t.Fatalf("len(StepErrors) = %d, want 2", len(stepErrs))
	}
	if stepErrs[0].Step != 1 || stepErrs[0].Message != "Video URL is required." {
		t.Errorf("StepErrors[0] = %+v", stepErrs[0])
	}
	if stepErrs[1].Step != 3 || stepErrs[1].Message != "Letter must be a single character." {
		t.Errorf("StepErrors[1] = %+v", stepErrs[1])
	}
}

func TestLevelDraftCheck_unknownTemplateAborts(t *testing.T) {
	d := NewLevelDraft(
		validStep(TemplateVideo),
		NewActivity{Template: "hopscotch", Config: Config{"x": 1}},
	)
	err := d.Check()
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("Check() error = %v, want ErrUnknownTemplate", err)
	}
	var stepErrs StepErrors
	if errors.As(err, &stepErrs) {
		t.Error("unknown template produced StepErrors, want immediate abort")
	}
}

func TestLevelDraftCompose(t *testing.T) {
	d := NewLevelDraft(validStep(TemplateReorderWords), validStep(TemplateSolveEquation))

	lvl, err := d.Compose("sec-1", "Blends", "Let's practice", 3)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if lvl.Kind != LevelMultiStep || lvl.SectionID != "sec-1" || lvl.LevelNumber != 3 {
		t.Errorf("Compose() = %+v", lvl)
	}
	if len(lvl.Activities) != 2 {
		t.Fatalf("len(Activities) = %d, want 2", len(lvl.Activities))
	}
	for i, act := range lvl.Activities {
		if act.StepNumber != i+1 {
			t.Errorf("Activities[%d].StepNumber = %d, want %d", i, act.StepNumber, i+1)
		}
	}
	if err = lvl.CheckKind(); err != nil {
		t.Errorf("composed level CheckKind() error: %v", err)
	}

	if _, err = NewLevelDraft().Compose("sec-1", "Empty", "", 1); err == nil {
		t.Error("Compose() on empty draft = nil, want error")
	}
}

// Walks a full authoring session: start from a valid two-step draft, break one
// step, watch the whole level get blocked, fix it and compose.
func TestLevelDraftAuthoringFlow(t *testing.T) {
	reorder := NewActivity{Template: TemplateReorderWords, Config: Config{
		"words":        []interface{}{"cat", "sat", "mat"},
		"correctOrder": []interface{}{2, 0, 1},
	}}
	equation := NewActivity{Template: TemplateSolveEquation, Config: Config{
		"equation":      "1 + 1 = ?",
		"options":       []interface{}{1, 2},
		"correctAnswer": 2,
	}}

	d := NewLevelDraft(reorder)
	if got := d.State(); got != DraftSubmittable {
		t.Fatalf("State() = %v, want submittable", got)
	}

	// a duplicate index breaks the permutation and blocks the draft
	broken := reorder
	broken.Config = Config{
		"words":        []interface{}{"cat", "sat", "mat"},
		"correctOrder": []interface{}{2, 0, 0},
	}
	d = NewLevelDraft(broken, equation)
	if got := d.State(); got != DraftAuthoring {
		t.Fatalf("State() with broken step = %v, want authoring", got)
	}
	if _, err := d.Compose("sec-1", "Reading", "", 1); err == nil {
		t.Fatal("Compose() with broken step = nil, want error")
	}

	d = NewLevelDraft(reorder, equation)
	lvl, err := d.Compose("sec-1", "Reading", "", 1)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if len(lvl.Activities) != 2 ||
		lvl.Activities[0].StepNumber != 1 || lvl.Activities[1].StepNumber != 2 {
		t.Errorf("Compose() activities = %+v, want dense step numbers 1, 2", lvl.Activities)
	}
}

func TestDraftStateString(t *testing.T) {
	if DraftEmpty.String() != "empty" || DraftAuthoring.String() != "authoring" || DraftSubmittable.String() != "submittable" {
		t.Error("DraftState.String() mismatch")
	}
}
