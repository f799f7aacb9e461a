package sparse

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches word tokens of two or more letters/digits.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// Vectorizer converts text into L2-normalised TF-IDF vectors over a
// vocabulary fitted once on the chunk corpus. After fitting, the
// vocabulary and IDF values are frozen; queries are vectorized with
// build-time parameters only, never re-fitted.
type Vectorizer struct {
	// Vocabulary maps a term to its feature position.
	Vocabulary map[string]int

	// IDF holds the smoothed inverse document frequency per position.
	IDF []float64

	// MaxFeatures caps the vocabulary size.
	MaxFeatures int
}

// NewVectorizer creates an unfitted vectorizer.
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{MaxFeatures: maxFeatures}
}

// Fit builds the vocabulary and IDF values from the corpus.
// Terms are unigrams and bigrams with stopwords removed; when the
// corpus yields more terms than MaxFeatures, the most frequent ones
// are kept (ties broken lexicographically, so fitting is
// deterministic).
func (v *Vectorizer) Fit(corpus []string) {
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range terms(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	selected := make([]string, 0, len(df))
	for term := range df {
		selected = append(selected, term)
	}
	sort.Slice(selected, func(i, j int) bool {
		if df[selected[i]] != df[selected[j]] {
			return df[selected[i]] > df[selected[j]]
		}
		return selected[i] < selected[j]
	})
	if len(selected) > v.MaxFeatures {
		selected = selected[:v.MaxFeatures]
	}
	sort.Strings(selected)

	v.Vocabulary = make(map[string]int, len(selected))
	v.IDF = make([]float64, len(selected))
	n := float64(len(corpus))
	for i, term := range selected {
		v.Vocabulary[term] = i
		// Smoothed IDF
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
}

// Transform computes the L2-normalised TF-IDF vector for the text.
// Terms outside the fitted vocabulary are ignored; a text with no
// known terms yields an empty vector.
func (v *Vectorizer) Transform(text string) map[int]float64 {
	counts := make(map[int]int)
	total := 0
	for _, term := range terms(text) {
		if pos, ok := v.Vocabulary[term]; ok {
			counts[pos]++
			total++
		}
	}

	vec := make(map[int]float64, len(counts))
	if total == 0 {
		return vec
	}

	norm := 0.0
	for pos, count := range counts {
		w := float64(count) / float64(total) * v.IDF[pos]
		vec[pos] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for pos := range vec {
			vec[pos] /= norm
		}
	}
	return vec
}

// terms tokenizes text into lower-cased unigrams and bigrams with
// stopwords removed.
func terms(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	out := make([]string, 0, len(tokens)*2)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// dot returns the inner product of two sparse vectors. Both sides are
// L2-normalised, so this is their cosine similarity.
func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for pos, w := range a {
		sum += w * b[pos]
	}
	return sum
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else",
		"for", "to", "of", "in", "on", "at", "by", "with", "as", "is",
		"are", "was", "were", "be", "been", "being", "it", "this",
		"that", "these", "those", "from", "up", "down", "over",
		"under", "again", "further", "than", "so", "such", "into",
		"about", "between", "through", "during", "before", "after",
		"above", "below", "out", "off", "own", "same", "too", "very",
		"can", "will", "just", "should", "now", "you", "your", "they",
		"them", "their", "he", "she", "his", "her", "its", "we", "our",
		"do", "does", "did", "have", "has", "had", "not", "no",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
