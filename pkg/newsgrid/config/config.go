// Package config loads the YAML analysis configuration and turns it into
// ready-to-use components.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/newsgrid/pkg/newsgrid/filter"
	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/merge"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic/lda"
)

// Analysis is the YAML configuration of one analysis session
type Analysis struct {
	Matrix  Matrix  `yaml:"matrix"`
	Topics  Topics  `yaml:"topics"`
	Assign  Assign  `yaml:"assign"`
	Summary Summary `yaml:"summary"`
	Merge   Merge   `yaml:"merge"`
	Text    Text    `yaml:"text"`
	Log     Log     `yaml:"log"`
}

// Matrix configures the row and column dimensions
type Matrix struct {
	Rows       Dimension `yaml:"rows"`
	Cols       Dimension `yaml:"cols"`
	Base       *Base     `yaml:"base,omitempty"`
	CellDocCap int       `yaml:"cell_doc_cap"`
}

// Dimension names a dimension kind and its raw labels
type Dimension struct {
	Kind   string   `yaml:"kind"`
	Values []string `yaml:"values"`
}

// Base is a free-text base filter on one text field
type Base struct {
	Field string `yaml:"field"`
	Query string `yaml:"query"`
}

// Topics configures topic model training
type Topics struct {
	TopicsPerCell  int     `yaml:"topics_per_cell"`
	Iterations     int     `yaml:"iterations"`
	Threads        int     `yaml:"threads"`
	Alpha          float64 `yaml:"alpha"`
	Eta            float64 `yaml:"eta"`
	MinProbability float64 `yaml:"min_probability"`
	MaxTerms       int     `yaml:"max_terms"`
	TopTerms       int     `yaml:"top_terms"`
	Policy         string  `yaml:"policy"`
}

// Assign configures topic-to-cell assignment
type Assign struct {
	Threshold float64 `yaml:"threshold"`
}

// Summary configures extractive summaries
type Summary struct {
	Sentences         int     `yaml:"sentences"`
	Terms             int     `yaml:"terms"`
	TopicBoost        float64 `yaml:"topic_boost"` // negative disables boosting
	MinSentenceTokens int     `yaml:"min_sentence_tokens"`
}

// Merge configures topic merging
type Merge struct {
	Enabled bool    `yaml:"enabled"`
	Type    string  `yaml:"type"`
	Epsilon float64 `yaml:"epsilon"`
}

// Text configures preprocessing
type Text struct {
	Stoplist string `yaml:"stoplist"`
	Stem     bool   `yaml:"stem"`
}

// Log configures logging
type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Defaults fills every unset field with its default value.
func (a *Analysis) Defaults() {
	setInt(&a.Matrix.CellDocCap, 500)
	setInt(&a.Topics.TopicsPerCell, 1)
	setInt(&a.Topics.Iterations, 100)
	setInt(&a.Topics.Threads, 1)
	setFloat(&a.Topics.Alpha, 0.1)
	setFloat(&a.Topics.Eta, 0.01)
	setFloat(&a.Topics.MinProbability, 0.001)
	setInt(&a.Topics.MaxTerms, 100)
	setInt(&a.Topics.TopTerms, 10)
	setString(&a.Topics.Policy, lda.PerCell.String())
	setFloat(&a.Assign.Threshold, 0.2)
	setInt(&a.Summary.Sentences, 5)
	setInt(&a.Summary.Terms, 10)
	if a.Summary.TopicBoost == 0 {
		a.Summary.TopicBoost = 1.0
	}
	setInt(&a.Summary.MinSentenceTokens, 3)
	setString(&a.Merge.Type, merge.TermOverlap.String())
	setFloat(&a.Merge.Epsilon, merge.DefaultEpsilon)
	setString(&a.Log.Level, "info")
}

// Validate checks names and ranges. Every failure wraps ErrInvalidConfig,
// except malformed base queries which wrap ErrMalformedQuery.
func (a *Analysis) Validate() error {
	for name, d := range map[string]Dimension{"rows": a.Matrix.Rows, "cols": a.Matrix.Cols} {
		if _, err := filter.ParseKind(d.Kind); err != nil {
			return fmt.Errorf("matrix.%s: %w", name, err)
		}
		if len(d.Values) == 0 {
			return fmt.Errorf("matrix.%s: no values: %w", name, internalerr.ErrInvalidConfig)
		}
	}
	if a.Matrix.Base != nil {
		if _, err := a.Matrix.Base.Predicate(); err != nil {
			return fmt.Errorf("matrix.base: %w", err)
		}
	}
	if _, err := lda.ParsePolicy(a.Topics.Policy); err != nil {
		return fmt.Errorf("topics.policy: %w", err)
	}
	if _, err := merge.ParseType(a.Merge.Type); err != nil {
		return fmt.Errorf("merge.type: %w", err)
	}
	if a.Assign.Threshold > 1 {
		return fmt.Errorf("assign.threshold %v above 1: %w", a.Assign.Threshold, internalerr.ErrInvalidConfig)
	}
	if a.Topics.MinProbability >= 1 {
		return fmt.Errorf("topics.min_probability %v: %w", a.Topics.MinProbability, internalerr.ErrInvalidConfig)
	}
	if a.Merge.Epsilon > 1 {
		return fmt.Errorf("merge.epsilon %v above 1: %w", a.Merge.Epsilon, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Predicate parses the base filter.
func (b *Base) Predicate() (index.Query, error) {
	switch b.Field {
	case index.FieldTitle, index.FieldDescription, index.FieldContent:
	default:
		return nil, fmt.Errorf("field %q is not a text field: %w", b.Field, internalerr.ErrInvalidConfig)
	}
	return index.ParseText(b.Field, b.Query)
}

// Parse decodes YAML, applies defaults and validates.
func Parse(data []byte) (*Analysis, error) {
	var a Analysis
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	a.Defaults()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Load reads an analysis configuration from a YAML file
func Load(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v <= 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
