package scorer

import (
	"context"
	"fmt"
	"math"
	"strings"
)

const (
	sentenceStart = "<s>"
	sentenceEnd   = "</s>"
)

// Bigram scores texts by their average bigram log-likelihood under a
// Laplace-smoothed model fitted on a small training corpus. Scores land in
// (0, 1], higher for texts whose word pairs the corpus has seen. The model
// is deterministic and self-contained, which makes it the scorer of choice
// for offline runs.
type Bigram struct {
	follows map[string]map[string]int
	heads   map[string]int
	vocab   int
}

// NewBigram fits the model on a corpus of one sentence per line. Tokens are
// lowercased whitespace-separated words.
func NewBigram(corpus string) (*Bigram, error) {
	b := &Bigram{
		follows: make(map[string]map[string]int),
		heads:   make(map[string]int),
	}

	types := map[string]struct{}{sentenceStart: {}, sentenceEnd: {}}
	sentences := 0
	for _, line := range strings.Split(corpus, "\n") {
		tokens := tokenize(line)
		if len(tokens) == 0 {
			continue
		}
		sentences++
		prev := sentenceStart
		for _, token := range append(tokens, sentenceEnd) {
			types[token] = struct{}{}
			if b.follows[prev] == nil {
				b.follows[prev] = make(map[string]int)
			}
			b.follows[prev][token]++
			b.heads[prev]++
			prev = token
		}
	}
	if sentences == 0 {
		return nil, fmt.Errorf("training corpus contains no sentences")
	}

	b.vocab = len(types)
	return b, nil
}

// ComputeScores scores each text independently; the i-th score belongs to
// the i-th text. It never fails: unseen words are smoothed, not rejected.
func (b *Bigram) ComputeScores(ctx context.Context, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))
	for i, text := range texts {
		scores[i] = b.score(text)
	}
	return scores, nil
}

func (b *Bigram) score(text string) float64 {
	logSum := 0.0
	pairs := 0
	prev := sentenceStart
	for _, token := range append(tokenize(text), sentenceEnd) {
		logSum += math.Log(b.probability(prev, token))
		pairs++
		prev = token
	}
	return math.Exp(logSum / float64(pairs))
}

func (b *Bigram) probability(head, tail string) float64 {
	return float64(b.follows[head][tail]+1) / float64(b.heads[head]+b.vocab)
}

func tokenize(line string) []string {
	return strings.Fields(strings.ToLower(line))
}
