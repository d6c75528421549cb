package content

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Subject identifies the curriculum a Section belongs to.
type Subject string

const (
	SubjectEnglish Subject = "en"
	SubjectFrench  Subject = "fr"
	SubjectMath    Subject = "math"
)

// Subjects lists all curricula, in display order.
var Subjects = []Subject{SubjectEnglish, SubjectFrench, SubjectMath}

// TemplateID identifies one kind of interactive exercise.
type TemplateID string

const (
	TemplateLetterTracing   TemplateID = "letter_tracing"
	TemplateAudioMatching   TemplateID = "audio_matching"
	TemplateListenAndChoose TemplateID = "listen_and_choose"
	TemplateFillTheBlank    TemplateID = "fill_the_blank"
	TemplateReorderWords    TemplateID = "reorder_words"
	TemplateMultipleChoice  TemplateID = "multiple_choice"
	TemplateSolveEquation   TemplateID = "solve_equation"
	TemplateCountBy         TemplateID = "count_by"
	TemplateNumberMatching  TemplateID = "number_matching"
	TemplateArrangeNumbers  TemplateID = "arrange_numbers"
	TemplateFollowPattern   TemplateID = "follow_pattern"
	TemplateShapePattern    TemplateID = "shape_pattern"
	TemplateStoryProblem    TemplateID = "story_problem"
	TemplateVideo           TemplateID = "video"
	TemplateMemoryCard      TemplateID = "memory_card"
	TemplateStory           TemplateID = "story"
)

// FieldKind is the value shape a configuration field may take. The console
// picks an editing widget per kind; the engine only cares about the shape.
type FieldKind string

const (
	FieldText          FieldKind = "text"
	FieldTextarea      FieldKind = "textarea"
	FieldNumber        FieldKind = "number"
	FieldBoolean       FieldKind = "boolean"
	FieldStringList    FieldKind = "string_array"
	FieldNumberList    FieldKind = "number_array"
	FieldAudioPairs    FieldKind = "audio_pairs"
	FieldFillOptions   FieldKind = "fill_options"
	FieldSelectOptions FieldKind = "selectable_options"
	FieldMemoryPairs   FieldKind = "memory_pairs"
	FieldNumberItems   FieldKind = "number_items"
	FieldDragOptions   FieldKind = "draggable_options"
	FieldStoryElements FieldKind = "story_elements"
)

// Template categories
const (
	CategoryLanguage = "Language"
	CategoryMath     = "Math"
	CategoryMedia    = "Media"
)

type FieldSpec struct {
	Name        string    `json:"name"`
	Kind        FieldKind `json:"kind"`
	Label       string    `json:"label"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
}

// Definition describes one activity template: its presentation metadata, its
// configuration fields and the semantic check a Config must pass. Field specs
// and the check live in the same catalog entry so the two cannot drift apart.
type Definition struct {
	ID       TemplateID  `json:"id"`
	Label    string      `json:"label"`
	Category string      `json:"category"`
	Fields   []FieldSpec `json:"fields"`

	check func(Config) error
}

// TemplateRef is the id/label pair the console shows in template pickers.
type TemplateRef struct {
	ID    TemplateID `json:"id"`
	Label string     `json:"label"`
}

// ErrUnknownTemplate reports a template identifier absent from the catalog.
// It indicates a client and catalog out of sync, not bad author input.
var ErrUnknownTemplate = errors.New("unknown activity template")

// catalog is the fixed registry of all activity templates, in display order.
// It never changes at runtime.
var catalog = []Definition{
	// Language
	{
		ID:       TemplateLetterTracing,
		Label:    "Letter Tracing",
		Category: CategoryLanguage,
		Fields: []FieldSpec{
			{Name: "letter", Kind: FieldText, Label: "Letter", Required: true, Description: "The letter to trace (e.g., A, B, C)"},
			{Name: "prompt", Kind: FieldText, Label: "Prompt", Required: true, Description: "Instructions for the child"},
		},
		check: checkLetterTracing,
	},
	{
		ID:       TemplateAudioMatching,
		Label:    "Audio Matching",
		Category: CategoryLanguage,
		Fields: []FieldSpec{
			{Name: "prompt", Kind: FieldText, Label: "Prompt", Required: true, Description: "Instructions for matching"},
			{Name: "pairs", Kind: FieldAudioPairs, Label: "Audio-Word Pairs", Required: true, Description: "Audio files matched with words"},
		},
		check: checkAudioMatching,
	},
	{
		ID:       TemplateListenAndChoose,
		Label:    "Listen and Choose",
		Category: CategoryLanguage,
		Fields: []FieldSpec{
			{Name: "label", Kind: FieldText, Label: "Label", Required: true, Description: "What to listen for"},
			{Name: "imageAssets", Kind: FieldStringList, Label: "Image Assets", Required: true, Description: "Paths to image options"},
			{Name: "correctAnswer", Kind: FieldNumber, Label: "Correct Answer Index", Required: true, Description: "0-based index of correct image"},
		},
		check: checkListenAndChoose,
	},
	{
		ID:       TemplateFillTheBlank,
		Label:    "Fill the Blank",
		Category: CategoryLanguage,
		Fields: []FieldSpec{
			{Name: "questionSuffix", Kind: FieldText, Label: "Question Suffix", Required: true, Description: `Text after the blank (e.g., "_at" for cat)`},
			{Name: "options", Kind: FieldFillOptions, Label: "Options", Required: true, Description: "Answer choices"},
			{Name: "correctAnswer", Kind: FieldNumber, Label: "Correct Answer Index", Required: true, Description: "0-based index of correct option"},
		},
		check: checkFillTheBlank,
	},
	{
		ID:       TemplateReorderWords,
		Label:    "Reorder Words",
		Category: CategoryLanguage,
		Fields: []FieldSpec{
			{Name: "words", Kind: FieldStringList, Label: "Words", Required: true, Description: "Words to reorder"},
			{Name: "correctOrder", Kind: FieldNumberList, Label: "Correct Order", Required: true, Description: "Indices in correct order"},
			{Name: "audioAssetPath", Kind: FieldText, Label: "Audio URL (Optional)", Required: false, Description: "Optional audio file URL. If empty, uses text-to-speech."},
		},
		check: checkReorderWords,
	},
	{
		ID:       TemplateMultipleChoice,
		Label:    "Multiple Choice",
		Category: CategoryLanguage,
		Fields: []FieldSpec{
			{Name: "instruction", Kind: FieldText, Label: "Instruction", Required: true, Description: "The question to ask"},
			{Name: "options", Kind: FieldSelectOptions, Label: "Options", Required: true, Description: "Answer choices with optional images"},
			{Name: "correctIndices", Kind: FieldNumberList, Label: "Correct Indices", Required: true, Description: "Indices of correct answers"},
		},
		check: checkMultipleChoice,
	},

	// Math
	{
		ID:       TemplateSolveEquation,
		Label:    "Solve Equation",
		Category: CategoryMath,
		Fields: []FieldSpec{
			{Name: "equation", Kind: FieldText, Label: "Equation", Required: true, Description: `Math equation (e.g., "2 + 2 = ?")`},
			{Name: "options", Kind: FieldNumberList, Label: "Options", Required: true, Description: "Number choices"},
			{Name: "correctAnswer", Kind: FieldNumber, Label: "Correct Answer", Required: true, Description: "The correct value; must be one of the options"},
		},
		check: checkSolveEquation,
	},
	{
		ID:       TemplateCountBy,
		Label:    "Count By",
		Category: CategoryMath,
		Fields: []FieldSpec{
			{Name: "instruction", Kind: FieldText, Label: "Instruction", Required: true, Description: "Counting instruction"},
			{Name: "initialSequence", Kind: FieldNumberList, Label: "Initial Sequence", Required: true, Description: "Starting numbers shown"},
			{Name: "numberOfInputs", Kind: FieldNumber, Label: "Number of Inputs", Required: true, Description: "How many blanks to fill"},
			{Name: "correctAnswers", Kind: FieldNumberList, Label: "Correct Answers", Required: true, Description: "Expected answers"},
		},
		check: checkCountBy,
	},
	{
		ID:       TemplateNumberMatching,
		Label:    "Number Matching",
		Category: CategoryMath,
		Fields: []FieldSpec{
			{Name: "instruction", Kind: FieldText, Label: "Instruction", Required: true, Description: "Matching instruction"},
			{Name: "items", Kind: FieldNumberItems, Label: "Items", Required: true, Description: "Number-image pairs to match"},
		},
		check: checkNumberMatching,
	},
	{
		ID:       TemplateArrangeNumbers,
		Label:    "Arrange Numbers",
		Category: CategoryMath,
		Fields: []FieldSpec{
			{Name: "instruction", Kind: FieldText, Label: "Instruction", Required: true, Description: "Arrangement instruction"},
			{Name: "numbers", Kind: FieldNumberList, Label: "Numbers", Required: true, Description: "Numbers to arrange"},
			{Name: "ascending", Kind: FieldBoolean, Label: "Ascending Order", Required: true, Description: "True for smallest to largest"},
		},
		check: checkArrangeNumbers,
	},
	{
		ID:       TemplateFollowPattern,
		Label:    "Follow Pattern",
		Category: CategoryMath,
		Fields: []FieldSpec{
			{Name: "instruction", Kind: FieldText, Label: "Instruction", Required: true, Description: "Pattern instruction"},
			{Name: "examples", Kind: FieldStringList, Label: "Examples", Required: true, Description: "Pattern examples"},
			{Name: "question", Kind: FieldText, Label: "Question", Required: true, Description: "The question mark or blank"},
			{Name: "options", Kind: FieldNumberList, Label: "Options", Required: true, Description: "Answer choices"},
			{Name: "correctAnswerIndex", Kind: FieldNumber, Label: "Correct Answer Index", Required: true, Description: "0-based index"},
		},
		check: checkFollowPattern,
	},
	{
		ID:       TemplateShapePattern,
		Label:    "Shape Pattern",
		Category: CategoryMath,
		Fields: []FieldSpec{
			{Name: "instruction", Kind: FieldText, Label: "Instruction", Required: true, Description: "Pattern instruction"},
			{Name: "patternImages", Kind: FieldStringList, Label: "Pattern Images", Required: true, Description: "Image paths for pattern"},
			{Name: "optionImages", Kind: FieldStringList, Label: "Option Images", Required: true, Description: "Image paths for options"},
			{Name: "correctIndex", Kind: FieldNumber, Label: "Correct Index", Required: true, Description: "0-based index of correct option"},
			{Name: "patternType", Kind: FieldText, Label: "Pattern Type", Required: true, Description: "Type: shapes, colors, etc."},
		},
		check: checkShapePattern,
	},
	{
		ID:       TemplateStoryProblem,
		Label:    "Story Problem",
		Category: CategoryMath,
		Fields: []FieldSpec{
			{Name: "instruction", Kind: FieldTextarea, Label: "Story/Instruction", Required: true, Description: "The story problem text"},
			{Name: "draggableOptions", Kind: FieldDragOptions, Label: "Draggable Options", Required: true, Description: "Items to drag"},
			{Name: "correctTotalValue", Kind: FieldNumber, Label: "Correct Total Value", Required: true, Description: "Expected total"},
			{Name: "unitName", Kind: FieldText, Label: "Unit Name", Required: true, Description: "Unit (apples, coins, etc.)"},
		},
		check: checkStoryProblem,
	},

	// Media
	{
		ID:       TemplateVideo,
		Label:    "Video",
		Category: CategoryMedia,
		Fields: []FieldSpec{
			{Name: "videoUrl", Kind: FieldText, Label: "Video URL/Path", Required: true, Description: "Path to video file"},
			{Name: "prompt", Kind: FieldText, Label: "Prompt", Required: false, Description: "Optional viewing prompt"},
		},
		check: checkVideo,
	},
	{
		ID:       TemplateMemoryCard,
		Label:    "Memory Card",
		Category: CategoryMedia,
		Fields: []FieldSpec{
			{Name: "instruction", Kind: FieldText, Label: "Instruction", Required: true, Description: "Game instruction"},
			{Name: "pairs", Kind: FieldMemoryPairs, Label: "Card Pairs", Required: true, Description: "Image paths for matching pairs"},
		},
		check: checkMemoryCard,
	},
	{
		ID:       TemplateStory,
		Label:    "Story",
		Category: CategoryMedia,
		Fields: []FieldSpec{
			{Name: "elements", Kind: FieldStoryElements, Label: "Story Elements", Required: true, Description: "Story content elements"},
		},
		check: checkStory,
	},
}

var catalogByID = make(map[TemplateID]Definition, len(catalog))

func init() {
	// The catalog is compiled-in static data; a malformed entry is a
	// programming error and must fail fast.
	for _, def := range catalog {
		if _, dup := catalogByID[def.ID]; dup {
			panic(fmt.Sprintf("content: duplicate template %q in catalog", def.ID))
		}
		names := make(map[string]struct{}, len(def.Fields))
		for _, fld := range def.Fields {
			if _, dup := names[fld.Name]; dup {
				panic(fmt.Sprintf("content: duplicate field %q in template %q", fld.Name, def.ID))
			}
			names[fld.Name] = struct{}{}
		}
		catalogByID[def.ID] = def
	}
}

// Templates returns all template definitions in catalog order.
func Templates() []Definition {
	defs := make([]Definition, len(catalog))
	copy(defs, catalog)
	return defs
}

// Lookup returns the definition for the given template id.
func Lookup(id TemplateID) (Definition, error) {
	def, ok := catalogByID[id]
	if !ok {
		return Definition{}, errors.Wrap(ErrUnknownTemplate, string(id))
	}
	return def, nil
}

// KnownTemplate reports whether id is present in the catalog.
func KnownTemplate(id TemplateID) bool {
	_, ok := catalogByID[id]
	return ok
}

// FieldsFor returns the ordered field specs of the given template.
func FieldsFor(id TemplateID) ([]FieldSpec, error) {
	def, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	fields := make([]FieldSpec, len(def.Fields))
	copy(fields, def.Fields)
	return fields, nil
}

// Categories returns the template categories in catalog order.
func Categories() []string {
	return lo.Uniq(lo.Map(catalog, func(def Definition, _ int) string { return def.Category }))
}

// ListByCategory buckets templates by category, preserving catalog order
// within each bucket. Used by presentation only, never by validation.
func ListByCategory() map[string][]TemplateRef {
	return lo.MapValues(
		lo.GroupBy(catalog, func(def Definition) string { return def.Category }),
		func(defs []Definition, _ string) []TemplateRef {
			return lo.Map(defs, func(def Definition, _ int) TemplateRef {
				return TemplateRef{ID: def.ID, Label: def.Label}
			})
		},
	)
}
