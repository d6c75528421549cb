package content

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// ValidateActivity checks cfg against the semantic rules of the given
// template. A nil return means the configuration is valid; a non-nil error
// carries a single author-facing diagnostic — the first rule violated.
// Invalid input is a normal return value, never a failure mode: the function
// is pure, performs no I/O and never mutates cfg.
//
// An id with no check registered validates trivially. The strict gate for
// unknown ids is Lookup; the service layer consults it before validation, so
// the permissive path is only reachable through direct use.
func ValidateActivity(id TemplateID, cfg Config) error {
	if len(cfg) == 0 {
		return invalid("Configuration is missing.")
	}
	def, ok := catalogByID[id]
	if !ok || def.check == nil {
		return nil
	}
	return def.check(cfg)
}

// diagnostic is an author-facing validation message. Texts intentionally read
// like UI copy, not like Go errors; they surface verbatim in the console.
type diagnostic string

func (d diagnostic) Error() string { return string(d) }

func invalid(msg string) error {
	return diagnostic(msg)
}

func invalidf(format string, args ...interface{}) error {
	return diagnostic(fmt.Sprintf(format, args...))
}

func badShape(err error) error {
	return invalidf("Configuration has the wrong shape: %v.", err)
}

// formatNumber renders a JSON number the way the author typed it (no
// trailing zeros).
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinNumbers(fs []float64) string {
	return strings.Join(lo.Map(fs, func(f float64, _ int) string { return formatNumber(f) }), ", ")
}

// Per-template checks. Every check has the same two-phase shape: structural
// presence first, then the semantic consistency specific to the template.
// The first violated rule short-circuits.

func checkLetterTracing(cfg Config) error {
	var c LetterTracingConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if c.Letter == "" || utf8.RuneCountInString(c.Letter) != 1 {
		return invalid("Letter must be a single character.")
	}
	if c.Prompt == "" {
		return invalid("Prompt is required.")
	}
	return nil
}

func checkAudioMatching(cfg Config) error {
	var c AudioMatchingConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.Pairs) == 0 {
		return invalid("At least one audio-word pair is required.")
	}
	for _, pair := range c.Pairs {
		if pair.AudioAssetPath == "" {
			return invalid("All pairs must have an audio asset.")
		}
		if pair.Word == "" {
			return invalid("All pairs must have a word.")
		}
	}
	return nil
}

func checkListenAndChoose(cfg Config) error {
	var c ListenAndChooseConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.ImageAssets) < 2 {
		return invalid("At least 2 image options are required.")
	}
	if c.CorrectAnswer == nil {
		return invalid("Correct answer index is missing.")
	}
	// bounds are checked against the collection as it is now, not as it was
	// when the index was set
	if *c.CorrectAnswer < 0 || *c.CorrectAnswer >= len(c.ImageAssets) {
		return invalidf("Correct answer index (%d) is out of bounds (0-%d).", *c.CorrectAnswer, len(c.ImageAssets)-1)
	}
	return nil
}

func checkFillTheBlank(cfg Config) error {
	var c FillTheBlankConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.Options) == 0 {
		return invalid("At least one option is required.")
	}
	if c.CorrectAnswer == nil {
		return invalid("Correct answer index is missing.")
	}
	if *c.CorrectAnswer < 0 || *c.CorrectAnswer >= len(c.Options) {
		return invalidf("Correct answer index (%d) is out of bounds (0-%d).", *c.CorrectAnswer, len(c.Options)-1)
	}
	return nil
}

func checkReorderWords(cfg Config) error {
	var c ReorderWordsConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.Words) == 0 {
		return invalid("At least one word is required.")
	}
	if c.CorrectOrder == nil {
		return invalid("Correct order array is required.")
	}
	if len(c.CorrectOrder) != len(c.Words) {
		return invalidf("Correct order list length (%d) must match words list length (%d).",
			len(c.CorrectOrder), len(c.Words))
	}
	// correctOrder must be a permutation of [0, len(words)): sorting it must
	// yield the identity sequence, which rejects both duplicates and
	// out-of-range indices
	sorted := make([]int, len(c.CorrectOrder))
	copy(sorted, c.CorrectOrder)
	sort.Ints(sorted)
	for i, idx := range sorted {
		if idx != i {
			return invalid("Correct order must contain all indices from 0 to length-1 once.")
		}
	}
	return nil
}

func checkMultipleChoice(cfg Config) error {
	var c MultipleChoiceConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.Options) < 2 {
		return invalid("At least 2 options are required.")
	}
	if len(c.CorrectIndices) == 0 {
		return invalid("At least one correct answer must be selected.")
	}
	maxIdx := len(c.Options) - 1
	for _, idx := range c.CorrectIndices {
		if idx < 0 || idx > maxIdx {
			return invalidf("Correct index %d is out of bounds (0-%d).", idx, maxIdx)
		}
	}
	return nil
}

func checkSolveEquation(cfg Config) error {
	var c SolveEquationConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if c.Equation == "" {
		return invalid("Equation is required.")
	}
	if len(c.Options) < 2 {
		return invalid("At least 2 number options are required.")
	}
	if c.CorrectAnswer == nil {
		return invalid("Correct answer (value) is required.")
	}
	// exact value membership, not index, not proximity
	if !lo.Contains(c.Options, *c.CorrectAnswer) {
		return invalidf("Correct answer value (%s) must be one of the provided options: [%s].",
			formatNumber(*c.CorrectAnswer), joinNumbers(c.Options))
	}
	return nil
}

func checkCountBy(cfg Config) error {
	var c CountByConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.InitialSequence) == 0 {
		return invalid("Initial sequence is required.")
	}
	if len(c.CorrectAnswers) == 0 {
		return invalid("Correct answers list cannot be empty.")
	}
	if c.NumberOfInputs != len(c.CorrectAnswers) {
		return invalidf("Number of Inputs (%d) must match the number of Correct Answers (%d).",
			c.NumberOfInputs, len(c.CorrectAnswers))
	}
	return nil
}

func checkNumberMatching(cfg Config) error {
	var c NumberMatchingConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.Items) == 0 {
		return invalid("At least one number-image pair is required.")
	}
	for _, item := range c.Items {
		if item.Number == "" {
			return invalid("All items must have a number label.")
		}
		if item.ImageAsset == "" {
			return invalidf("Image asset missing for number %s.", item.Number)
		}
	}
	return nil
}

func checkArrangeNumbers(cfg Config) error {
	var c ArrangeNumbersConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.Numbers) < 2 {
		return invalid("At least 2 numbers are required to arrange.")
	}
	return nil
}

func checkFollowPattern(cfg Config) error {
	var c FollowPatternConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.Examples) == 0 {
		return invalid("At least one pattern example is required.")
	}
	if len(c.Options) < 2 {
		return invalid("At least 2 options are required.")
	}
	if c.CorrectAnswerIndex == nil {
		return invalid("Correct answer index is missing.")
	}
	if *c.CorrectAnswerIndex < 0 || *c.CorrectAnswerIndex >= len(c.Options) {
		return invalidf("Correct answer index (%d) is out of bounds (0-%d).",
			*c.CorrectAnswerIndex, len(c.Options)-1)
	}
	return nil
}

func checkShapePattern(cfg Config) error {
	var c ShapePatternConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.PatternImages) == 0 {
		return invalid("Pattern images are required.")
	}
	if len(c.OptionImages) < 2 {
		return invalid("At least 2 option images are required.")
	}
	if c.CorrectIndex == nil {
		return invalid("Correct answer index is missing.")
	}
	if *c.CorrectIndex < 0 || *c.CorrectIndex >= len(c.OptionImages) {
		return invalidf("Correct index (%d) is out of bounds (0-%d).", *c.CorrectIndex, len(c.OptionImages)-1)
	}
	return nil
}

func checkStoryProblem(cfg Config) error {
	var c StoryProblemConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if c.Instruction == "" {
		return invalid("Story instruction is required.")
	}
	if c.UnitName == "" {
		return invalid(`Unit name (e.g., "apples") is required.`)
	}
	if len(c.DraggableOptions) == 0 {
		return invalid("At least one draggable option is required.")
	}
	seen := make(map[string]struct{}, len(c.DraggableOptions))
	for _, opt := range c.DraggableOptions {
		if opt.ID == "" {
			return invalid("All draggable options must have an ID.")
		}
		if _, dup := seen[opt.ID]; dup {
			return invalidf("Duplicate option ID found: %s. IDs must be unique.", opt.ID)
		}
		seen[opt.ID] = struct{}{}
	}
	if c.CorrectTotalValue <= 0 {
		return invalid("Correct total value must be greater than 0.")
	}
	return nil
}

func checkVideo(cfg Config) error {
	var c VideoConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if strings.TrimSpace(c.VideoURL) == "" {
		return invalid("Video URL is required.")
	}
	return nil
}

func checkMemoryCard(cfg Config) error {
	var c MemoryCardConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.Pairs) == 0 {
		return invalid("At least one pair of cards is required.")
	}
	return nil
}

func checkStory(cfg Config) error {
	var c StoryConfig
	if err := cfg.decode(&c); err != nil {
		return badShape(err)
	}
	if len(c.Elements) == 0 {
		return invalid("Story must have at least one element.")
	}
	return nil
}
