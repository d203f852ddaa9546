package ml

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

const (
	maxStatisticalScore = 40
	triggerThreshold    = 20
	triggerLanguage     = "suspicious_language_patterns"
	defaultMaxFeatures  = 1000
)

// ErrModelNotReady is reported when the classifier has no trained model
var ErrModelNotReady = errors.New("statistical model not initialized")

// Model is a fitted vectorizer plus classifier. It is never mutated after
// training and is shared by all concurrent scans.
type Model struct {
	vectorizer *TFIDFVectorizer
	classifier *LogisticRegression
}

// ScamProbability returns the probability that content is a scam. Content
// with no in-vocabulary term falls back to the intercept alone.
func (m *Model) ScamProbability(content string) float64 {
	return m.classifier.Probability(m.vectorizer.Transform(content))
}

// Train fits a model on the given samples
func Train(samples []Sample, cfg LogisticRegressionConfig) (*Model, error) {
	docs := make([]string, len(samples))
	labels := make([]int, len(samples))
	for i, s := range samples {
		docs[i] = s.Text
		if s.Scam {
			labels[i] = 1
		}
	}

	vectorizer := NewTFIDFVectorizer(defaultMaxFeatures, EnglishStopWords)
	x := vectorizer.Fit(docs)

	classifier, err := TrainLogisticRegression(x, labels, vectorizer.NumFeatures(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}

	return &Model{vectorizer: vectorizer, classifier: classifier}, nil
}

// Classifier is the statistical detection layer. It starts not ready and
// becomes ready once Initialize succeeds; scoring before that degrades to zero.
type Classifier struct {
	model  atomic.Pointer[Model]
	logger *logger.Logger
}

// NewClassifier creates an uninitialized classifier
func NewClassifier(log *logger.Logger) *Classifier {
	return &Classifier{logger: log.WithComponent("statistical-classifier")}
}

// Initialize trains on the samples. A failure is logged and leaves the
// classifier permanently not ready; it never panics.
func (c *Classifier) Initialize(samples []Sample) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model training panicked: %v", r)
		}
		if err != nil {
			c.logger.Error().Err(err).Msg("failed to initialize statistical model")
		}
	}()

	model, err := Train(samples, DefaultLogisticRegressionConfig())
	if err != nil {
		return err
	}
	c.model.Store(model)

	c.logger.Info().
		Int("samples", len(samples)).
		Int("features", model.vectorizer.NumFeatures()).
		Msg("statistical model initialized")
	return nil
}

// Ready reports whether a trained model is loaded
func (c *Classifier) Ready() bool {
	return c.model.Load() != nil
}

// Score maps the scam probability to an integer in [0, 40]
func (c *Classifier) Score(content string) (out models.LayerOutcome) {
	model := c.model.Load()
	if model == nil {
		return models.Degrade(models.LayerStatistical, ErrModelNotReady.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msg("statistical layer failed, layer degraded")
			out = models.Degrade(models.LayerStatistical, fmt.Sprintf("transform failed: %v", r))
		}
	}()

	out = models.LayerOutcome{Layer: models.LayerStatistical, Triggers: []string{}}

	out.Score = ProbabilityToScore(model.ScamProbability(content))
	if out.Score > triggerThreshold {
		out.Triggers = append(out.Triggers, models.LayerStatistical.Trigger(triggerLanguage))
	}
	return out
}

// ProbabilityToScore rounds p*40 to the nearest integer, clamped to [0, 40]
func ProbabilityToScore(p float64) int {
	if math.IsNaN(p) || p <= 0 {
		return 0
	}
	score := int(math.Round(p * maxStatisticalScore))
	return min(score, maxStatisticalScore)
}
