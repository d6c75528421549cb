package content

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/ourson-app/backend/core"
)

// fakeRepo is an in-memory Repository for service tests. Cascades mirror the
// database's ON DELETE behavior.
type fakeRepo struct {
	sections   map[string]Section
	levels     map[string]Level
	activities map[string]Activity

	failNumbers bool // force number queries to fail
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sections:   make(map[string]Section),
		levels:     make(map[string]Level),
		activities: make(map[string]Activity),
	}
}

var errRepoDown = errors.New("repo down")

func (r *fakeRepo) CreateSection(ctx context.Context, section Section) (Section, error) {
	r.sections[section.ID] = section
	return section, nil
}

func (r *fakeRepo) QuerySections(ctx context.Context, subject Subject) ([]Section, error) {
	var out []Section
	for _, s := range r.sections {
		if s.Subject == subject {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetSectionByID(ctx context.Context, id string) (Section, error) {
	s, ok := r.sections[id]
	if !ok {
		return Section{}, ErrSectionNotFound
	}
	return s, nil
}

func (r *fakeRepo) QuerySectionNumbers(ctx context.Context, subject Subject) ([]int, error) {
	if r.failNumbers {
		return nil, errRepoDown
	}
	var nums []int
	for _, s := range r.sections {
		if s.Subject == subject {
			nums = append(nums, s.SectionNumber)
		}
	}
	return nums, nil
}

func (r *fakeRepo) DeleteSection(ctx context.Context, id string) error {
	if _, ok := r.sections[id]; !ok {
		return ErrSectionNotFound
	}
	delete(r.sections, id)
	for lid, l := range r.levels {
		if l.SectionID == id {
			_ = r.DeleteLevel(ctx, lid)
		}
	}
	return nil
}

func (r *fakeRepo) CreateLevel(ctx context.Context, level Level) (Level, error) {
	r.levels[level.ID] = level
	return level, nil
}

func (r *fakeRepo) GetLevelByID(ctx context.Context, id string) (Level, error) {
	l, ok := r.levels[id]
	if !ok {
		return Level{}, ErrLevelNotFound
	}
	return l, nil
}

func (r *fakeRepo) QueryLevelNumbers(ctx context.Context, sectionID string) ([]int, error) {
	if r.failNumbers {
		return nil, errRepoDown
	}
	var nums []int
	for _, l := range r.levels {
		if l.SectionID == sectionID {
			nums = append(nums, l.LevelNumber)
		}
	}
	return nums, nil
}

func (r *fakeRepo) UpdateLevel(ctx context.Context, level Level) (Level, error) {
	if _, ok := r.levels[level.ID]; !ok {
		return Level{}, ErrLevelNotFound
	}
	r.levels[level.ID] = level
	return level, nil
}

func (r *fakeRepo) DeleteLevel(ctx context.Context, id string) error {
	if _, ok := r.levels[id]; !ok {
		return ErrLevelNotFound
	}
	delete(r.levels, id)
	for aid, a := range r.activities {
		if a.LevelID == id {
			delete(r.activities, aid)
		}
	}
	return nil
}

func (r *fakeRepo) CreateActivities(ctx context.Context, acts []Activity) ([]Activity, error) {
	for _, a := range acts {
		r.activities[a.ID] = a
	}
	return acts, nil
}

func (r *fakeRepo) QueryLevelActivities(ctx context.Context, levelID string) ([]Activity, error) {
	var out []Activity
	for _, a := range r.activities {
		if a.LevelID == levelID {
			out = append(out, a)
		}
	}
	// step order
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].StepNumber < out[i].StepNumber {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) GetActivityByID(ctx context.Context, id string) (Activity, error) {
	a, ok := r.activities[id]
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	return a, nil
}

func (r *fakeRepo) UpdateActivity(ctx context.Context, act Activity) (Activity, error) {
	if _, ok := r.activities[act.ID]; !ok {
		return Activity{}, ErrActivityNotFound
	}
	r.activities[act.ID] = act
	return act, nil
}

func (r *fakeRepo) DeleteActivity(ctx context.Context, id string) error {
	if _, ok := r.activities[id]; !ok {
		return ErrActivityNotFound
	}
	delete(r.activities, id)
	return nil
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                        {}
func (nopLogger) Debug(string, ...interface{})       {}
func (nopLogger) Info(string, ...interface{})        {}
func (nopLogger) Warn(string, ...interface{})        {}
func (nopLogger) Error(string, ...interface{})       {}
func (nopLogger) Fatal(msg string, _ ...interface{}) { panic(msg) }

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, nopLogger{}), repo
}

func mustCreateSection(t *testing.T, svc *Service, subject Subject, title string) Section {
	t.Helper()
	section, err := svc.CreateSection(context.Background(), NewSection{Subject: subject, Title: title})
	if err != nil {
		t.Fatalf("CreateSection(%s) error: %v", title, err)
	}
	return section
}

func TestServiceCreateSection_numbersPerSubject(t *testing.T) {
	svc, _ := newTestService()

	s1 := mustCreateSection(t, svc, SubjectEnglish, "Alphabet")
	s2 := mustCreateSection(t, svc, SubjectEnglish, "Phonics")
	m1 := mustCreateSection(t, svc, SubjectMath, "Counting")

	if s1.SectionNumber != 1 || s2.SectionNumber != 2 {
		t.Errorf("en section numbers = %d, %d, want 1, 2", s1.SectionNumber, s2.SectionNumber)
	}
	// numbering is scoped per subject
	if m1.SectionNumber != 1 {
		t.Errorf("math section number = %d, want 1", m1.SectionNumber)
	}
	if s1.ID == s2.ID {
		t.Error("sections share an id")
	}
}

func TestServiceCreateSection_invalid(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSection(context.Background(), NewSection{Subject: "latin", Title: "Declensions"})
	if err == nil {
		t.Fatal("CreateSection(unknown subject) = nil, want error")
	}
	_, err = svc.CreateSection(context.Background(), NewSection{Subject: SubjectEnglish})
	if err == nil {
		t.Fatal("CreateSection(no title) = nil, want error")
	}
}

func TestServiceCreateSection_fallbackNumber(t *testing.T) {
	svc, repo := newTestService()
	mustCreateSection(t, svc, SubjectEnglish, "Alphabet")

	// numbering query failures must not block authoring
	repo.failNumbers = true
	section := mustCreateSection(t, svc, SubjectEnglish, "Phonics")
	if section.SectionNumber != 1 {
		t.Errorf("SectionNumber = %d, want fallback 1", section.SectionNumber)
	}
}

func TestServiceNextLevelNumber(t *testing.T) {
	svc, repo := newTestService()
	section := mustCreateSection(t, svc, SubjectEnglish, "Alphabet")
	ctx := context.Background()

	if got := svc.NextLevelNumber(ctx, section.ID); got != 1 {
		t.Errorf("NextLevelNumber(empty section) = %d, want 1", got)
	}

	for _, n := range []int{1, 2, 5} {
		repo.levels[fakeID(n)] = Level{ID: fakeID(n), SectionID: section.ID, LevelNumber: n}
	}
	if got := svc.NextLevelNumber(ctx, section.ID); got != 6 {
		t.Errorf("NextLevelNumber({1,2,5}) = %d, want 6", got)
	}

	repo.failNumbers = true
	if got := svc.NextLevelNumber(ctx, section.ID); got != 1 {
		t.Errorf("NextLevelNumber(failing repo) = %d, want fallback 1", got)
	}
}

// fakeID fabricates a stable id for seeding the repo directly.
func fakeID(n int) string { return "00000000-0000-4000-8000-00000000000" + string(rune('0'+n)) }

func TestServiceCreateLevel(t *testing.T) {
	svc, _ := newTestService()
	section := mustCreateSection(t, svc, SubjectEnglish, "Alphabet")
	ctx := context.Background()

	nl := NewLevel{
		SectionID: section.ID,
		Title:     "Trace the A",
		Template:  TemplateLetterTracing,
		Config:    Config{"letter": "A", "prompt": "Trace the letter A"},
	}
	level, err := svc.CreateLevel(ctx, nl)
	if err != nil {
		t.Fatalf("CreateLevel() error: %v", err)
	}
	if level.Kind != LevelSingleActivity || level.LevelNumber != 1 || level.DisplayOrder != 1 {
		t.Errorf("CreateLevel() = %+v", level)
	}

	level2, err := svc.CreateLevel(ctx, nl)
	if err != nil {
		t.Fatalf("CreateLevel() error: %v", err)
	}
	if level2.LevelNumber != 2 {
		t.Errorf("second level number = %d, want 2", level2.LevelNumber)
	}
}

func TestServiceCreateLevel_rejectsInvalidConfig(t *testing.T) {
	svc, repo := newTestService()
	section := mustCreateSection(t, svc, SubjectEnglish, "Alphabet")

	_, err := svc.CreateLevel(context.Background(), NewLevel{
		SectionID: section.ID,
		Title:     "Broken",
		Template:  TemplateLetterTracing,
		Config:    Config{"letter": "ABC", "prompt": "Trace"},
	})
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("CreateLevel(invalid config) error = %T %v, want ValidationError", err, err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "config" {
		t.Errorf("ValidationError.Fields = %+v, want one config field error", vErr.Fields)
	}
	if len(repo.levels) != 0 {
		t.Error("invalid level was persisted")
	}
}

func TestServiceCreateLevel_unknownSection(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateLevel(context.Background(), NewLevel{
		SectionID: fakeID(9),
		Title:     "Orphan",
		Template:  TemplateVideo,
		Config:    Config{"videoUrl": "v.mp4"},
	})
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("CreateLevel(unknown section) error = %v, want ErrSectionNotFound", err)
	}
}

func TestServiceCreateMultiStepLevel(t *testing.T) {
	svc, _ := newTestService()
	section := mustCreateSection(t, svc, SubjectEnglish, "Reading")
	ctx := context.Background()

	level, err := svc.CreateMultiStepLevel(ctx, NewMultiStepLevel{
		SectionID: section.ID,
		Title:     "Cat sentences",
		Steps: []NewActivity{
			{Template: TemplateReorderWords, Config: Config{
				"words":        []interface{}{"cat", "sat", "mat"},
				"correctOrder": []interface{}{2, 0, 1},
			}},
			{Template: TemplateSolveEquation, Config: Config{
				"equation":      "1 + 1 = ?",
				"options":       []interface{}{1, 2},
				"correctAnswer": 2,
			}},
		},
	})
	if err != nil {
		t.Fatalf("CreateMultiStepLevel() error: %v", err)
	}
	if !level.MultiStep() {
		t.Errorf("Kind = %q, want %q", level.Kind, LevelMultiStep)
	}
	if len(level.Activities) != 2 {
		t.Fatalf("len(Activities) = %d, want 2", len(level.Activities))
	}
	for i, act := range level.Activities {
		if act.StepNumber != i+1 {
			t.Errorf("Activities[%d].StepNumber = %d, want %d", i, act.StepNumber, i+1)
		}
		if act.LevelID != level.ID {
			t.Errorf("Activities[%d].LevelID = %q, want %q", i, act.LevelID, level.ID)
		}
	}

	// reload includes steps in order
	got, err := svc.GetLevelByID(ctx, level.ID)
	if err != nil {
		t.Fatalf("GetLevelByID() error: %v", err)
	}
	if len(got.Activities) != 2 || got.Activities[0].StepNumber != 1 {
		t.Errorf("GetLevelByID().Activities = %+v", got.Activities)
	}
}

func TestServiceCreateMultiStepLevel_reportsAllFailingSteps(t *testing.T) {
	svc, repo := newTestService()
	section := mustCreateSection(t, svc, SubjectEnglish, "Reading")

	_, err := svc.CreateMultiStepLevel(context.Background(), NewMultiStepLevel{
		SectionID: section.ID,
		Title:     "Broken",
		Steps: []NewActivity{
			{Template: TemplateVideo, Config: Config{"videoUrl": " "}},
			{Template: TemplateStory, Config: Config{"elements": []interface{}{map[string]interface{}{"type": "text", "content": "hi"}}}},
			{Template: TemplateVideo, Config: Config{"prompt": "watch"}},
		},
	})
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %T %v, want ValidationError", err, err)
	}
	if len(vErr.Fields) != 2 {
		t.Fatalf("Fields = %+v, want 2 step errors", vErr.Fields)
	}
	if vErr.Fields[0].Field != "step 1" || vErr.Fields[1].Field != "step 3" {
		t.Errorf("failing steps = %q, %q, want step 1, step 3", vErr.Fields[0].Field, vErr.Fields[1].Field)
	}
	if len(repo.levels) != 0 || len(repo.activities) != 0 {
		t.Error("partially valid level was persisted")
	}
}

func createStepsLevel(t *testing.T, svc *Service, sectionID string, steps ...NewActivity) Level {
	t.Helper()
	level, err := svc.CreateMultiStepLevel(context.Background(), NewMultiStepLevel{
		SectionID: sectionID,
		Title:     "Steps",
		Steps:     steps,
	})
	if err != nil {
		t.Fatalf("CreateMultiStepLevel() error: %v", err)
	}
	return level
}

func TestServiceAddActivity(t *testing.T) {
	svc, _ := newTestService()
	section := mustCreateSection(t, svc, SubjectMath, "Counting")
	ctx := context.Background()
	level := createStepsLevel(t, svc, section.ID, validStep(TemplateVideo))

	act, err := svc.AddActivity(ctx, level.ID, validStep(TemplateSolveEquation))
	if err != nil {
		t.Fatalf("AddActivity() error: %v", err)
	}
	if act.StepNumber != 2 {
		t.Errorf("StepNumber = %d, want 2", act.StepNumber)
	}

	// single-activity levels take no steps
	single, err := svc.CreateLevel(ctx, NewLevel{
		SectionID: section.ID,
		Title:     "Single",
		Template:  TemplateVideo,
		Config:    Config{"videoUrl": "v.mp4"},
	})
	if err != nil {
		t.Fatalf("CreateLevel() error: %v", err)
	}
	if _, err = svc.AddActivity(ctx, single.ID, validStep(TemplateVideo)); err == nil {
		t.Error("AddActivity(single-activity level) = nil, want error")
	}
}

func TestServiceAddActivities_numbersAfterExisting(t *testing.T) {
	svc, _ := newTestService()
	section := mustCreateSection(t, svc, SubjectMath, "Counting")
	ctx := context.Background()
	level := createStepsLevel(t, svc, section.ID, validStep(TemplateVideo), validStep(TemplateStory))

	acts, err := svc.AddActivities(ctx, level.ID, []NewActivity{
		validStep(TemplateSolveEquation),
		validStep(TemplateCountBy),
	})
	if err != nil {
		t.Fatalf("AddActivities() error: %v", err)
	}
	if len(acts) != 2 || acts[0].StepNumber != 3 || acts[1].StepNumber != 4 {
		t.Errorf("AddActivities() step numbers = %+v, want 3, 4", acts)
	}

	// one bad step blocks the whole batch
	_, err = svc.AddActivities(ctx, level.ID, []NewActivity{
		validStep(TemplateVideo),
		{Template: TemplateVideo, Config: Config{"videoUrl": ""}},
	})
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("AddActivities(bad batch) error = %T, want ValidationError", err)
	}
	if got, _ := svc.QueryLevelActivities(ctx, level.ID); len(got) != 4 {
		t.Errorf("len(activities) = %d, want 4 (bad batch not persisted)", len(got))
	}
}

func TestServiceDeleteActivity_renumbers(t *testing.T) {
	svc, _ := newTestService()
	section := mustCreateSection(t, svc, SubjectMath, "Counting")
	ctx := context.Background()
	level := createStepsLevel(t, svc, section.ID,
		validStep(TemplateVideo), validStep(TemplateStory), validStep(TemplateMemoryCard))

	acts, err := svc.QueryLevelActivities(ctx, level.ID)
	if err != nil {
		t.Fatalf("QueryLevelActivities() error: %v", err)
	}
	if err = svc.DeleteActivity(ctx, acts[1].ID); err != nil {
		t.Fatalf("DeleteActivity() error: %v", err)
	}

	remaining, err := svc.QueryLevelActivities(ctx, level.ID)
	if err != nil {
		t.Fatalf("QueryLevelActivities() error: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("len(remaining) = %d, want 2", len(remaining))
	}
	// step numbers stay dense and 1-based
	wantTemplates := []TemplateID{TemplateVideo, TemplateMemoryCard}
	for i, act := range remaining {
		if act.StepNumber != i+1 {
			t.Errorf("remaining[%d].StepNumber = %d, want %d", i, act.StepNumber, i+1)
		}
		if act.Template != wantTemplates[i] {
			t.Errorf("remaining[%d].Template = %q, want %q", i, act.Template, wantTemplates[i])
		}
	}
}

func TestServiceUpdateActivity(t *testing.T) {
	svc, _ := newTestService()
	section := mustCreateSection(t, svc, SubjectMath, "Counting")
	ctx := context.Background()
	level := createStepsLevel(t, svc, section.ID, validStep(TemplateSolveEquation))
	acts, _ := svc.QueryLevelActivities(ctx, level.ID)

	// config updates are re-validated against the effective template
	_, err := svc.UpdateActivity(ctx, acts[0].ID, UpdateActivity{
		Config: Config{"equation": "2 + 2 = ?", "options": []interface{}{3, 4}, "correctAnswer": 5},
	})
	if err == nil {
		t.Fatal("UpdateActivity(invalid config) = nil, want error")
	}

	updated, err := svc.UpdateActivity(ctx, acts[0].ID, UpdateActivity{
		Config: Config{"equation": "2 + 2 = ?", "options": []interface{}{3, 4}, "correctAnswer": 4},
	})
	if err != nil {
		t.Fatalf("UpdateActivity() error: %v", err)
	}
	if updated.StepNumber != acts[0].StepNumber {
		t.Errorf("StepNumber changed on update: %d -> %d", acts[0].StepNumber, updated.StepNumber)
	}
}

func TestServiceUpdateLevel(t *testing.T) {
	svc, _ := newTestService()
	section := mustCreateSection(t, svc, SubjectEnglish, "Alphabet")
	ctx := context.Background()

	level, err := svc.CreateLevel(ctx, NewLevel{
		SectionID: section.ID,
		Title:     "Trace the A",
		Template:  TemplateLetterTracing,
		Config:    Config{"letter": "A", "prompt": "Trace it"},
	})
	if err != nil {
		t.Fatalf("CreateLevel() error: %v", err)
	}

	updated, err := svc.UpdateLevel(ctx, level.ID, UpdateLevel{Title: "Trace the letter A"})
	if err != nil {
		t.Fatalf("UpdateLevel() error: %v", err)
	}
	if updated.Title != "Trace the letter A" || updated.Template != TemplateLetterTracing {
		t.Errorf("UpdateLevel() = %+v", updated)
	}

	// new config is checked against the existing template
	if _, err = svc.UpdateLevel(ctx, level.ID, UpdateLevel{Config: Config{"letter": "XY", "prompt": "Trace"}}); err == nil {
		t.Error("UpdateLevel(invalid config) = nil, want error")
	}

	// a multi-step level cannot be given its own template
	steps := createStepsLevel(t, svc, section.ID, validStep(TemplateVideo))
	if _, err = svc.UpdateLevel(ctx, steps.ID, UpdateLevel{Template: TemplateVideo, Config: Config{"videoUrl": "v.mp4"}}); err == nil {
		t.Error("UpdateLevel(template on multi-step) = nil, want error")
	}
}

func TestServiceDeleteSection_cascades(t *testing.T) {
	svc, repo := newTestService()
	section := mustCreateSection(t, svc, SubjectEnglish, "Alphabet")
	ctx := context.Background()
	createStepsLevel(t, svc, section.ID, validStep(TemplateVideo))

	if err := svc.DeleteSection(ctx, section.ID); err != nil {
		t.Fatalf("DeleteSection() error: %v", err)
	}
	if len(repo.levels) != 0 || len(repo.activities) != 0 {
		t.Errorf("cascade left %d levels, %d activities", len(repo.levels), len(repo.activities))
	}
	if err := svc.DeleteSection(ctx, section.ID); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("DeleteSection(gone) error = %v, want ErrSectionNotFound", err)
	}
}
