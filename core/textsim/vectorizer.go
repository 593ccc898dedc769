// Package textsim converts free-text profiles into a shared tf-idf vector
// space and scores pairwise cosine similarity. Vocabulary construction is
// deterministic: the same corpus always yields the same term ordering and
// the same scores.
package textsim

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// tokenPattern matches word tokens of at least two letters or digits.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases text and extracts word tokens, dropping english stop
// words. An empty or stop-word-only text yields no tokens.
func Tokenize(text string) []string {
	var toks []string
	for _, t := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := englishStopWords[t]; stop {
			continue
		}
		toks = append(toks, t)
	}
	return toks
}

// Vectorizer holds a vocabulary and idf weights fitted on a fixed corpus.
type Vectorizer struct {
	terms []string
	index map[string]int
	idf   []float64
}

// Fit builds the vocabulary and smoothed idf weights from the corpus.
// Terms are ordered lexicographically.
func Fit(corpus []string) *Vectorizer {
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	v := &Vectorizer{
		terms: terms,
		index: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := len(corpus)
	for i, t := range terms {
		v.index[t] = i
		// Smoothed idf: pretends one extra document containing every
		// term, so no weight divides by zero.
		v.idf[i] = math.Log(float64(n+1)/float64(df[t]+1)) + 1
	}
	return v
}

// Terms returns a copy of the fitted vocabulary.
func (v *Vectorizer) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Transform maps each text to its l2-normalized tf-idf row vector. Texts
// with no in-vocabulary tokens become zero rows.
func (v *Vectorizer) Transform(texts []string) *mat.Dense {
	if len(texts) == 0 || len(v.terms) == 0 {
		return &mat.Dense{}
	}
	x := mat.NewDense(len(texts), len(v.terms), nil)
	for i, text := range texts {
		row := x.RawRowView(i)
		for _, tok := range Tokenize(text) {
			if j, ok := v.index[tok]; ok {
				row[j]++
			}
		}
		for j := range row {
			row[j] *= v.idf[j]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
	return x
}
