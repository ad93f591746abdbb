package learning

import (
	"math"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// tokenize lowercases and splits text into alphanumeric runs.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// termFrequencies counts tokens in one document.
func termFrequencies(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// tfidfVectors builds weighted vectors for two documents, with inverse
// document frequency taken over the pair plus the history corpus.
func tfidfVectors(a, b string, corpus []string) (map[string]float64, map[string]float64) {
	docs := make([][]string, 0, len(corpus)+2)
	docs = append(docs, tokenize(a), tokenize(b))
	for _, c := range corpus {
		docs = append(docs, tokenize(c))
	}

	df := make(map[string]float64)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, t := range doc {
			if !seen[t] {
				df[t]++
				seen[t] = true
			}
		}
	}

	n := float64(len(docs))
	weigh := func(tokens []string) map[string]float64 {
		vec := termFrequencies(tokens)
		for t, f := range vec {
			vec[t] = f * math.Log(1+n/df[t])
		}
		return vec
	}
	return weigh(docs[0]), weigh(docs[1])
}

// cosine is the cosine similarity of two sparse vectors.
func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for t, av := range a {
		na += av * av
		if bv, ok := b[t]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// contextSimilarity scores how closely a context resembles the contexts
// of past successful extractions for the same pattern. With no history
// there is nothing to compare against and the score is neutral.
func contextSimilarity(context string, history []string) float64 {
	if len(history) == 0 {
		return 0.5
	}
	var sum float64
	for _, h := range history {
		va, vb := tfidfVectors(context, h, history)
		sum += cosine(va, vb)
	}
	return sum / float64(len(history))
}
