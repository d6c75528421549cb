package content

import (
	"testing"
)

// minimal well-formed configs, one per template
func validConfigs() map[TemplateID]Config {
	return map[TemplateID]Config{
		TemplateLetterTracing: {"letter": "A", "prompt": "Trace the letter"},
		TemplateAudioMatching: {
			"prompt": "Match the sound",
			"pairs": []interface{}{
				map[string]interface{}{"audioAssetPath": "assets/audio/alphabets_en/a.mp3", "word": "apple"},
			},
		},
		TemplateListenAndChoose: {
			"label":         "Find the cat",
			"imageAssets":   []interface{}{"assets/svg/chat.svg", "assets/svg/croco.svg"},
			"correctAnswer": 0,
		},
		TemplateFillTheBlank: {
			"questionSuffix": "_at",
			"options":        []interface{}{map[string]interface{}{"text": "c"}, map[string]interface{}{"text": "b"}},
			"correctAnswer":  1,
		},
		TemplateReorderWords: {
			"words":        []interface{}{"the", "cat", "sat"},
			"correctOrder": []interface{}{2, 0, 1},
		},
		TemplateMultipleChoice: {
			"instruction": "Pick the animals",
			"options": []interface{}{
				map[string]interface{}{"text": "cat"},
				map[string]interface{}{"text": "lamp"},
			},
			"correctIndices": []interface{}{0},
		},
		TemplateSolveEquation: {
			"equation":      "2 + 3 = ?",
			"options":       []interface{}{3, 5, 7},
			"correctAnswer": 5,
		},
		TemplateCountBy: {
			"instruction":     "Count by 2",
			"initialSequence": []interface{}{2, 4, 6},
			"numberOfInputs":  2,
			"correctAnswers":  []interface{}{8, 10},
		},
		TemplateNumberMatching: {
			"instruction": "Match numbers to pictures",
			"items": []interface{}{
				map[string]interface{}{"number": "3", "imageAsset": "assets/svg/apple.svg"},
			},
		},
		TemplateArrangeNumbers: {
			"instruction": "Smallest to largest",
			"numbers":     []interface{}{4, 1, 9},
			"ascending":   true,
		},
		TemplateFollowPattern: {
			"instruction":        "What comes next?",
			"examples":           []interface{}{"2, 4, 6"},
			"question":           "?",
			"options":            []interface{}{8, 9},
			"correctAnswerIndex": 0,
		},
		TemplateShapePattern: {
			"instruction":   "Continue the pattern",
			"patternImages": []interface{}{"assets/svg/starR.svg"},
			"optionImages":  []interface{}{"assets/svg/apple.svg", "assets/svg/gift.svg"},
			"correctIndex":  1,
			"patternType":   "shapes",
		},
		TemplateStoryProblem: {
			"instruction": "Tom has 2 apples and picks 3 more.",
			"unitName":    "apples",
			"draggableOptions": []interface{}{
				map[string]interface{}{"id": "a1", "label": "apple", "value": 1},
				map[string]interface{}{"id": "a2", "label": "basket", "value": 3},
			},
			"correctTotalValue": 5,
		},
		TemplateVideo:      {"videoUrl": "assets/video/intro.mp4"},
		TemplateMemoryCard: {"instruction": "Find the pairs", "pairs": []interface{}{map[string]interface{}{"first": "a.svg", "second": "b.svg"}}},
		TemplateStory:      {"elements": []interface{}{map[string]interface{}{"type": "text", "content": "Once upon a time"}}},
	}
}

func TestValidateActivity_minimalValidConfigs(t *testing.T) {
	for id, cfg := range validConfigs() {
		id, cfg := id, cfg
		t.Run(string(id), func(t *testing.T) {
			if err := ValidateActivity(id, cfg); err != nil {
				t.Errorf("ValidateActivity(%s) = %q, want valid", id, err)
			}
		})
	}
}

func TestValidateActivity_missingConfig(t *testing.T) {
	if err := ValidateActivity(TemplateVideo, nil); err == nil {
		t.Error("ValidateActivity(nil config) = valid, want error")
	}
	if err := ValidateActivity(TemplateVideo, Config{}); err == nil {
		t.Error("ValidateActivity(empty config) = valid, want error")
	}
}

func TestValidateActivity_unknownTemplateIsVacuouslyValid(t *testing.T) {
	// no check registered means pass; the strict gate is Lookup
	if err := ValidateActivity("hopscotch", Config{"anything": true}); err != nil {
		t.Errorf("ValidateActivity(unknown) = %q, want valid", err)
	}
}

// mutate returns a copy of cfg with key replaced (or removed when val is nil).
func mutate(cfg Config, key string, val interface{}) Config {
	out := make(Config, len(cfg))
	for k, v := range cfg {
		out[k] = v
	}
	if val == nil {
		delete(out, key)
	} else {
		out[key] = val
	}
	return out
}

func TestValidateActivity_invariantViolations(t *testing.T) {
	valid := validConfigs()

	tests := []struct {
		name     string
		template TemplateID
		cfg      Config
		want     string
	}{
		{
			name:     "letter_tracing multi-char letter",
			template: TemplateLetterTracing,
			cfg:      mutate(valid[TemplateLetterTracing], "letter", "AB"),
			want:     "Letter must be a single character.",
		},
		{
			name:     "letter_tracing missing prompt",
			template: TemplateLetterTracing,
			cfg:      mutate(valid[TemplateLetterTracing], "prompt", nil),
			want:     "Prompt is required.",
		},
		{
			name:     "audio_matching no pairs",
			template: TemplateAudioMatching,
			cfg:      mutate(valid[TemplateAudioMatching], "pairs", []interface{}{}),
			want:     "At least one audio-word pair is required.",
		},
		{
			name:     "audio_matching pair without audio",
			template: TemplateAudioMatching,
			cfg: mutate(valid[TemplateAudioMatching], "pairs", []interface{}{
				map[string]interface{}{"word": "apple"},
			}),
			want: "All pairs must have an audio asset.",
		},
		{
			name:     "audio_matching pair without word",
			template: TemplateAudioMatching,
			cfg: mutate(valid[TemplateAudioMatching], "pairs", []interface{}{
				map[string]interface{}{"audioAssetPath": "a.mp3"},
			}),
			want: "All pairs must have a word.",
		},
		{
			name:     "listen_and_choose single image",
			template: TemplateListenAndChoose,
			cfg:      mutate(valid[TemplateListenAndChoose], "imageAssets", []interface{}{"one.svg"}),
			want:     "At least 2 image options are required.",
		},
		{
			name:     "listen_and_choose missing index",
			template: TemplateListenAndChoose,
			cfg:      mutate(valid[TemplateListenAndChoose], "correctAnswer", nil),
			want:     "Correct answer index is missing.",
		},
		{
			name:     "listen_and_choose index out of bounds",
			template: TemplateListenAndChoose,
			cfg:      mutate(valid[TemplateListenAndChoose], "correctAnswer", 2),
			want:     "Correct answer index (2) is out of bounds (0-1).",
		},
		{
			name:     "listen_and_choose negative index",
			template: TemplateListenAndChoose,
			cfg:      mutate(valid[TemplateListenAndChoose], "correctAnswer", -1),
			want:     "Correct answer index (-1) is out of bounds (0-1).",
		},
		{
			name:     "fill_the_blank no options",
			template: TemplateFillTheBlank,
			cfg:      mutate(valid[TemplateFillTheBlank], "options", []interface{}{}),
			want:     "At least one option is required.",
		},
		{
			name:     "fill_the_blank index out of bounds",
			template: TemplateFillTheBlank,
			cfg:      mutate(valid[TemplateFillTheBlank], "correctAnswer", 5),
			want:     "Correct answer index (5) is out of bounds (0-1).",
		},
		{
			name:     "reorder_words no words",
			template: TemplateReorderWords,
			cfg:      mutate(mutate(valid[TemplateReorderWords], "words", []interface{}{}), "correctOrder", []interface{}{}),
			want:     "At least one word is required.",
		},
		{
			name:     "reorder_words missing order",
			template: TemplateReorderWords,
			cfg:      mutate(valid[TemplateReorderWords], "correctOrder", nil),
			want:     "Correct order array is required.",
		},
		{
			name:     "reorder_words length mismatch",
			template: TemplateReorderWords,
			cfg:      mutate(valid[TemplateReorderWords], "correctOrder", []interface{}{0, 1}),
			want:     "Correct order list length (2) must match words list length (3).",
		},
		{
			name:     "reorder_words duplicate index",
			template: TemplateReorderWords,
			cfg:      mutate(valid[TemplateReorderWords], "correctOrder", []interface{}{2, 0, 0}),
			want:     "Correct order must contain all indices from 0 to length-1 once.",
		},
		{
			name:     "reorder_words out-of-range index",
			template: TemplateReorderWords,
			cfg:      mutate(valid[TemplateReorderWords], "correctOrder", []interface{}{0, 1, 3}),
			want:     "Correct order must contain all indices from 0 to length-1 once.",
		},
		{
			name:     "multiple_choice single option",
			template: TemplateMultipleChoice,
			cfg:      mutate(valid[TemplateMultipleChoice], "options", []interface{}{map[string]interface{}{"text": "cat"}}),
			want:     "At least 2 options are required.",
		},
		{
			name:     "multiple_choice no correct answers",
			template: TemplateMultipleChoice,
			cfg:      mutate(valid[TemplateMultipleChoice], "correctIndices", []interface{}{}),
			want:     "At least one correct answer must be selected.",
		},
		{
			name:     "multiple_choice correct index out of bounds",
			template: TemplateMultipleChoice,
			cfg:      mutate(valid[TemplateMultipleChoice], "correctIndices", []interface{}{0, 2}),
			want:     "Correct index 2 is out of bounds (0-1).",
		},
		{
			name:     "solve_equation missing equation",
			template: TemplateSolveEquation,
			cfg:      mutate(valid[TemplateSolveEquation], "equation", nil),
			want:     "Equation is required.",
		},
		{
			name:     "solve_equation single option",
			template: TemplateSolveEquation,
			cfg:      mutate(valid[TemplateSolveEquation], "options", []interface{}{5}),
			want:     "At least 2 number options are required.",
		},
		{
			name:     "solve_equation answer not in options",
			template: TemplateSolveEquation,
			cfg:      mutate(valid[TemplateSolveEquation], "correctAnswer", 4),
			want:     "Correct answer value (4) must be one of the provided options: [3, 5, 7].",
		},
		{
			name:     "count_by empty sequence",
			template: TemplateCountBy,
			cfg:      mutate(valid[TemplateCountBy], "initialSequence", []interface{}{}),
			want:     "Initial sequence is required.",
		},
		{
			name:     "count_by empty answers",
			template: TemplateCountBy,
			cfg:      mutate(valid[TemplateCountBy], "correctAnswers", []interface{}{}),
			want:     "Correct answers list cannot be empty.",
		},
		{
			name:     "count_by input count mismatch",
			template: TemplateCountBy,
			cfg:      mutate(valid[TemplateCountBy], "numberOfInputs", 3),
			want:     "Number of Inputs (3) must match the number of Correct Answers (2).",
		},
		{
			name:     "number_matching no items",
			template: TemplateNumberMatching,
			cfg:      mutate(valid[TemplateNumberMatching], "items", []interface{}{}),
			want:     "At least one number-image pair is required.",
		},
		{
			name:     "number_matching item without image",
			template: TemplateNumberMatching,
			cfg: mutate(valid[TemplateNumberMatching], "items", []interface{}{
				map[string]interface{}{"number": "7"},
			}),
			want: "Image asset missing for number 7.",
		},
		{
			name:     "arrange_numbers single number",
			template: TemplateArrangeNumbers,
			cfg:      mutate(valid[TemplateArrangeNumbers], "numbers", []interface{}{4}),
			want:     "At least 2 numbers are required to arrange.",
		},
		{
			name:     "follow_pattern no examples",
			template: TemplateFollowPattern,
			cfg:      mutate(valid[TemplateFollowPattern], "examples", []interface{}{}),
			want:     "At least one pattern example is required.",
		},
		{
			name:     "follow_pattern index out of bounds",
			template: TemplateFollowPattern,
			cfg:      mutate(valid[TemplateFollowPattern], "correctAnswerIndex", 2),
			want:     "Correct answer index (2) is out of bounds (0-1).",
		},
		{
			name:     "shape_pattern no pattern images",
			template: TemplateShapePattern,
			cfg:      mutate(valid[TemplateShapePattern], "patternImages", []interface{}{}),
			want:     "Pattern images are required.",
		},
		{
			name:     "shape_pattern index out of bounds",
			template: TemplateShapePattern,
			cfg:      mutate(valid[TemplateShapePattern], "correctIndex", 9),
			want:     "Correct index (9) is out of bounds (0-1).",
		},
		{
			name:     "story_problem missing instruction",
			template: TemplateStoryProblem,
			cfg:      mutate(valid[TemplateStoryProblem], "instruction", nil),
			want:     "Story instruction is required.",
		},
		{
			name:     "story_problem duplicate option ids",
			template: TemplateStoryProblem,
			cfg: mutate(valid[TemplateStoryProblem], "draggableOptions", []interface{}{
				map[string]interface{}{"id": "a1", "value": 1},
				map[string]interface{}{"id": "a1", "value": 3},
			}),
			want: "Duplicate option ID found: a1. IDs must be unique.",
		},
		{
			name:     "story_problem zero total",
			template: TemplateStoryProblem,
			cfg:      mutate(valid[TemplateStoryProblem], "correctTotalValue", 0),
			want:     "Correct total value must be greater than 0.",
		},
		{
			name:     "video blank url",
			template: TemplateVideo,
			cfg:      mutate(valid[TemplateVideo], "videoUrl", "   "),
			want:     "Video URL is required.",
		},
		{
			name:     "memory_card no pairs",
			template: TemplateMemoryCard,
			cfg:      mutate(valid[TemplateMemoryCard], "pairs", []interface{}{}),
			want:     "At least one pair of cards is required.",
		},
		{
			name:     "story no elements",
			template: TemplateStory,
			cfg:      mutate(valid[TemplateStory], "elements", []interface{}{}),
			want:     "Story must have at least one element.",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateActivity(tt.template, tt.cfg)
			if err == nil {
				t.Fatalf("ValidateActivity(%s) = valid, want %q", tt.template, tt.want)
			}
			if err.Error() != tt.want {
				t.Errorf("ValidateActivity(%s) = %q, want %q", tt.template, err, tt.want)
			}
		})
	}
}

func TestValidateActivity_reorderWordsPermutations(t *testing.T) {
	words := []interface{}{"cat", "sat", "mat"}
	perms := [][]interface{}{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, perm := range perms {
		cfg := Config{"words": words, "correctOrder": perm}
		if err := ValidateActivity(TemplateReorderWords, cfg); err != nil {
			t.Errorf("ValidateActivity(reorder_words, order=%v) = %q, want valid", perm, err)
		}
	}
}

func TestValidateActivity_solveEquationMembershipByValue(t *testing.T) {
	// value membership regardless of position; no proximity
	for _, answer := range []interface{}{3, 5, 7} {
		cfg := Config{"equation": "?", "options": []interface{}{3, 5, 7}, "correctAnswer": answer}
		if err := ValidateActivity(TemplateSolveEquation, cfg); err != nil {
			t.Errorf("ValidateActivity(solve_equation, answer=%v) = %q, want valid", answer, err)
		}
	}
	cfg := Config{"equation": "?", "options": []interface{}{3, 5, 7}, "correctAnswer": 6}
	if err := ValidateActivity(TemplateSolveEquation, cfg); err == nil {
		t.Error("ValidateActivity(solve_equation, answer between options) = valid, want error")
	}
}

func TestValidateActivity_boundsFollowCurrentCollection(t *testing.T) {
	// index 2 is fine for 3 images, out of bounds after the list shrinks
	cfg := Config{
		"label":         "Find it",
		"imageAssets":   []interface{}{"a.svg", "b.svg", "c.svg"},
		"correctAnswer": 2,
	}
	if err := ValidateActivity(TemplateListenAndChoose, cfg); err != nil {
		t.Fatalf("ValidateActivity() = %q, want valid", err)
	}
	cfg = mutate(cfg, "imageAssets", []interface{}{"a.svg", "b.svg"})
	if err := ValidateActivity(TemplateListenAndChoose, cfg); err == nil {
		t.Error("ValidateActivity() after shrinking options = valid, want out-of-bounds error")
	}
}

func TestValidateActivity_isIdempotentAndPure(t *testing.T) {
	cfg := validConfigs()[TemplateReorderWords]
	for i := 0; i < 3; i++ {
		if err := ValidateActivity(TemplateReorderWords, cfg); err != nil {
			t.Fatalf("pass %d: ValidateActivity() = %q, want valid", i, err)
		}
	}
	// input must not be mutated
	if got := len(cfg["words"].([]interface{})); got != 3 {
		t.Errorf("config mutated: len(words) = %d, want 3", got)
	}
}
