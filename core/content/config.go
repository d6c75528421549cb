package content

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Config is the open, per-template configuration of an activity as received
// from the console. Its shape is only loosely guaranteed to match the
// template's field specs; ValidateActivity is the authority on whether it is
// usable. The open map exists at the boundary only — each check decodes it
// into the template's typed struct before inspecting it.
type Config map[string]interface{}

// Value implements driver.Valuer; Config is stored as jsonb.
func (c Config) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *Config) Scan(src interface{}) error {
	switch data := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		return json.Unmarshal(data, c)
	case string:
		return json.Unmarshal([]byte(data), c)
	default:
		return errors.Errorf("content: cannot scan %T into Config", src)
	}
}

// decode maps the open Config onto a typed per-template struct. No weak
// typing: values must already be of plausible primitive shape (JSON numbers
// arrive as float64 and narrow to int fields; strings never become numbers).
func (c Config) decode(out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]interface{}(c))
}

// Compound field records

// AudioPair matches an audio asset with the word it speaks.
type AudioPair struct {
	AudioAssetPath string `mapstructure:"audioAssetPath" json:"audioAssetPath"`
	Word           string `mapstructure:"word" json:"word"`
}

// FillOption is one answer choice for a fill-the-blank exercise.
type FillOption struct {
	Text string `mapstructure:"text" json:"text"`
}

// SelectableOption is a multiple-choice answer with an optional image.
type SelectableOption struct {
	Text       string `mapstructure:"text" json:"text"`
	ImageAsset string `mapstructure:"imageAsset" json:"imageAsset,omitempty"`
}

// MemoryPair is two card faces that match each other.
type MemoryPair struct {
	First  string `mapstructure:"first" json:"first"`
	Second string `mapstructure:"second" json:"second"`
}

// NumberItem pairs a number label with the image showing that quantity.
type NumberItem struct {
	Number     string `mapstructure:"number" json:"number"`
	ImageAsset string `mapstructure:"imageAsset" json:"imageAsset"`
	Quantity   int    `mapstructure:"quantity" json:"quantity,omitempty"`
}

// DraggableOption is a weighted item the child drags to build a total.
type DraggableOption struct {
	ID         string  `mapstructure:"id" json:"id"`
	Label      string  `mapstructure:"label" json:"label"`
	Value      float64 `mapstructure:"value" json:"value"`
	ImageAsset string  `mapstructure:"imageAsset" json:"imageAsset,omitempty"`
}

// StoryElement is one piece of story content.
type StoryElement struct {
	Type    string `mapstructure:"type" json:"type"` // text, image or audio
	Content string `mapstructure:"content" json:"content"`
}

// Per-template typed configurations. Index fields are pointers so that a
// missing value can be told apart from a legitimate zero.

type LetterTracingConfig struct {
	Letter string `mapstructure:"letter"`
	Prompt string `mapstructure:"prompt"`
}

type AudioMatchingConfig struct {
	Prompt string      `mapstructure:"prompt"`
	Pairs  []AudioPair `mapstructure:"pairs"`
}

type ListenAndChooseConfig struct {
	Label         string   `mapstructure:"label"`
	ImageAssets   []string `mapstructure:"imageAssets"`
	CorrectAnswer *int     `mapstructure:"correctAnswer"`
}

type FillTheBlankConfig struct {
	QuestionSuffix string       `mapstructure:"questionSuffix"`
	Options        []FillOption `mapstructure:"options"`
	CorrectAnswer  *int         `mapstructure:"correctAnswer"`
}

type ReorderWordsConfig struct {
	Words          []string `mapstructure:"words"`
	CorrectOrder   []int    `mapstructure:"correctOrder"`
	AudioAssetPath string   `mapstructure:"audioAssetPath"`
}

type MultipleChoiceConfig struct {
	Instruction    string             `mapstructure:"instruction"`
	Options        []SelectableOption `mapstructure:"options"`
	CorrectIndices []int              `mapstructure:"correctIndices"`
}

type SolveEquationConfig struct {
	Equation      string    `mapstructure:"equation"`
	Options       []float64 `mapstructure:"options"`
	CorrectAnswer *float64  `mapstructure:"correctAnswer"`
}

type CountByConfig struct {
	Instruction     string    `mapstructure:"instruction"`
	InitialSequence []float64 `mapstructure:"initialSequence"`
	NumberOfInputs  int       `mapstructure:"numberOfInputs"`
	CorrectAnswers  []float64 `mapstructure:"correctAnswers"`
}

type NumberMatchingConfig struct {
	Instruction string       `mapstructure:"instruction"`
	Items       []NumberItem `mapstructure:"items"`
}

type ArrangeNumbersConfig struct {
	Instruction string    `mapstructure:"instruction"`
	Numbers     []float64 `mapstructure:"numbers"`
	Ascending   bool      `mapstructure:"ascending"`
}

type FollowPatternConfig struct {
	Instruction        string    `mapstructure:"instruction"`
	Examples           []string  `mapstructure:"examples"`
	Question           string    `mapstructure:"question"`
	Options            []float64 `mapstructure:"options"`
	CorrectAnswerIndex *int      `mapstructure:"correctAnswerIndex"`
}

type ShapePatternConfig struct {
	Instruction   string   `mapstructure:"instruction"`
	PatternImages []string `mapstructure:"patternImages"`
	OptionImages  []string `mapstructure:"optionImages"`
	CorrectIndex  *int     `mapstructure:"correctIndex"`
	PatternType   string   `mapstructure:"patternType"`
}

type StoryProblemConfig struct {
	Instruction       string            `mapstructure:"instruction"`
	DraggableOptions  []DraggableOption `mapstructure:"draggableOptions"`
	CorrectTotalValue float64           `mapstructure:"correctTotalValue"`
	UnitName          string            `mapstructure:"unitName"`
}

type VideoConfig struct {
	VideoURL string `mapstructure:"videoUrl"`
	Prompt   string `mapstructure:"prompt"`
}

type MemoryCardConfig struct {
	Instruction string       `mapstructure:"instruction"`
	Pairs       []MemoryPair `mapstructure:"pairs"`
}

type StoryConfig struct {
	Elements []StoryElement `mapstructure:"elements"`
}
