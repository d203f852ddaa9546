package ml

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern keeps runs of two or more word characters
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// SparseVector maps feature index to weight
type SparseVector map[int]float64

// Dot returns the inner product with a dense weight vector
func (v SparseVector) Dot(weights []float64) float64 {
	var sum float64
	for i, x := range v {
		sum += x * weights[i]
	}
	return sum
}

// TFIDFVectorizer turns documents into L2-normalized TF-IDF vectors over a
// vocabulary learned by Fit. It is immutable after Fit.
type TFIDFVectorizer struct {
	maxFeatures int
	stopWords   map[string]struct{}
	vocabulary  map[string]int
	idf         []float64
}

// NewTFIDFVectorizer creates an unfitted vectorizer. maxFeatures <= 0 keeps
// the whole vocabulary.
func NewTFIDFVectorizer(maxFeatures int, stopWords []string) *TFIDFVectorizer {
	sw := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		sw[w] = struct{}{}
	}
	return &TFIDFVectorizer{maxFeatures: maxFeatures, stopWords: sw}
}

// Tokenize lowercases the document and returns its non-stop-word tokens
func (v *TFIDFVectorizer) Tokenize(doc string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, stop := v.stopWords[t]; !stop {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Fit learns the vocabulary and smoothed inverse document frequencies, then
// returns the transformed corpus.
func (v *TFIDFVectorizer) Fit(docs []string) []SparseVector {
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)
	tokenized := make([][]string, len(docs))

	for i, doc := range docs {
		tokens := v.Tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			termFreq[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				docFreq[t]++
			}
		}
	}

	terms := make([]string, 0, len(termFreq))
	for t := range termFreq {
		terms = append(terms, t)
	}
	// most frequent first, ties alphabetical, so truncation is deterministic
	sort.Slice(terms, func(i, j int) bool {
		if termFreq[terms[i]] != termFreq[terms[j]] {
			return termFreq[terms[i]] > termFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.maxFeatures > 0 && len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, t := range terms {
		v.vocabulary[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	out := make([]SparseVector, len(docs))
	for i, tokens := range tokenized {
		out[i] = v.vectorize(tokens)
	}
	return out
}

// Transform vectorizes a document with the fitted vocabulary. Out-of-vocabulary
// tokens are dropped, so the result may be empty.
func (v *TFIDFVectorizer) Transform(doc string) SparseVector {
	return v.vectorize(v.Tokenize(doc))
}

// NumFeatures returns the fitted vocabulary size
func (v *TFIDFVectorizer) NumFeatures() int {
	return len(v.idf)
}

func (v *TFIDFVectorizer) vectorize(tokens []string) SparseVector {
	vec := make(SparseVector)
	for _, t := range tokens {
		if idx, ok := v.vocabulary[t]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for idx, count := range vec {
		w := count * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}
