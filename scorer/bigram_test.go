package scorer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBigram(t *testing.T) {
	t.Run("rejects an empty corpus", func(t *testing.T) {
		for _, corpus := range []string{"", "\n  \n"} {
			_, err := NewBigram(corpus)
			require.Error(t, err, "Should fail fast without training data")
		}
	})
}

func TestBigramComputeScores(t *testing.T) {
	ctx := context.Background()
	// Vocabulary: <s>, </s>, the, cat, dog, sleeps -> 6 types.
	model, err := NewBigram("the cat sleeps\nthe dog sleeps")
	require.NoError(t, err)

	t.Run("scores a sentence by its smoothed bigram likelihood", func(t *testing.T) {
		scores, err := model.ComputeScores(ctx, []string{"the cat sleeps"})
		require.NoError(t, err)

		// (<s> the): (2+1)/(2+6), (the cat): (1+1)/(2+6),
		// (cat sleeps): (1+1)/(1+6), (sleeps </s>): (2+1)/(2+6)
		expected := math.Exp((math.Log(3.0/8) + math.Log(2.0/8) + math.Log(2.0/7) + math.Log(3.0/8)) / 4)
		require.InDelta(t, expected, scores[0], 0.0001,
			"Should average the log-probabilities of all adjacent pairs")
	})

	t.Run("prefers seen word pairs over unseen ones", func(t *testing.T) {
		scores, err := model.ComputeScores(ctx, []string{"the cat sleeps", "sleeps dog the"})
		require.NoError(t, err)

		require.Greater(t, scores[0], scores[1],
			"A corpus sentence should beat its shuffled words")
	})

	t.Run("keeps scores inside the unit interval for unknown words", func(t *testing.T) {
		scores, err := model.ComputeScores(ctx, []string{"quantum flux"})
		require.NoError(t, err)

		require.Greater(t, scores[0], 0.0)
		require.LessOrEqual(t, scores[0], 1.0)
	})

	t.Run("scores each text independently in input order", func(t *testing.T) {
		forward, err := model.ComputeScores(ctx, []string{"the cat sleeps", "the dog sleeps"})
		require.NoError(t, err)
		backward, err := model.ComputeScores(ctx, []string{"the dog sleeps", "the cat sleeps"})
		require.NoError(t, err)

		require.Equal(t, forward[0], backward[1])
		require.Equal(t, forward[1], backward[0])
	})

	t.Run("ignores case and extra spacing", func(t *testing.T) {
		scores, err := model.ComputeScores(ctx, []string{"the cat sleeps", "The  CAT   sleeps"})
		require.NoError(t, err)

		require.Equal(t, scores[0], scores[1])
	})
}
