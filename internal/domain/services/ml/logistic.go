package ml

import (
	"errors"
	"math"
)

// LogisticRegressionConfig holds training parameters
type LogisticRegressionConfig struct {
	C            float64 // inverse L2 regularization strength
	LearningRate float64
	Iterations   int
}

// DefaultLogisticRegressionConfig returns the training defaults
func DefaultLogisticRegressionConfig() LogisticRegressionConfig {
	return LogisticRegressionConfig{
		C:            1.0,
		LearningRate: 0.1,
		Iterations:   3000,
	}
}

// LogisticRegression is a binary linear classifier with an unpenalized intercept
type LogisticRegression struct {
	weights   []float64
	intercept float64
}

// TrainLogisticRegression fits weights by full-batch gradient descent on the
// L2-regularized log loss. Training is deterministic.
func TrainLogisticRegression(x []SparseVector, y []int, numFeatures int, cfg LogisticRegressionConfig) (*LogisticRegression, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, errors.New("training set is empty or mislabeled")
	}
	if numFeatures == 0 {
		return nil, errors.New("training set has no features")
	}

	var positives int
	for _, label := range y {
		if label != 0 && label != 1 {
			return nil, errors.New("labels must be 0 or 1")
		}
		positives += label
	}
	if positives == 0 || positives == len(y) {
		return nil, errors.New("training set needs both classes")
	}

	m := &LogisticRegression{weights: make([]float64, numFeatures)}
	grad := make([]float64, numFeatures)

	for iter := 0; iter < cfg.Iterations; iter++ {
		copy(grad, m.weights)
		var gradIntercept float64

		for i, vec := range x {
			residual := cfg.C * (m.probability(vec) - float64(y[i]))
			for idx, v := range vec {
				grad[idx] += residual * v
			}
			gradIntercept += residual
		}

		for j := range m.weights {
			m.weights[j] -= cfg.LearningRate * grad[j]
		}
		m.intercept -= cfg.LearningRate * gradIntercept
	}

	return m, nil
}

// Probability returns P(class = 1 | vec)
func (m *LogisticRegression) Probability(vec SparseVector) float64 {
	return m.probability(vec)
}

func (m *LogisticRegression) probability(vec SparseVector) float64 {
	return sigmoid(vec.Dot(m.weights) + m.intercept)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
