package experiments

import (
	"context"
	"fmt"

	"gensearch/experiments/metrics"
	"gensearch/grammar"
	"gensearch/scorer"
	"gensearch/searcher"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	SearchesPerConfig = 10
	WalkBudget        = 400
)

// DemoGrammar is a small recursive English fragment. The NP and PP rules
// feed each other, so random derivations occasionally run into the
// expansion cap and produce dead ends.
const DemoGrammar = `
S -> NP VP
NP -> Det N | Det Adj N | NP PP
VP -> V NP | V NP PP | V
PP -> P NP
Det -> 'the' | 'a'
Adj -> 'old' | 'small' | 'hungry'
N -> 'cat' | 'dog' | 'bird' | 'garden' | 'house'
V -> 'sees' | 'chases' | 'likes' | 'sleeps'
P -> 'in' | 'near'
`

// DemoCorpus trains the offline bigram scorer, one sentence per line, all
// of them inside the language of DemoGrammar.
const DemoCorpus = `the cat sees the dog
a dog chases the cat
the old cat sleeps
a small bird sees the garden
the dog sleeps in the house
a hungry cat chases a small bird
the bird likes the old garden
a cat sleeps near the house
the small dog likes a bird
the cat chases the bird in the garden`

type runSetup struct {
	metrics.RunConfig
	strategy searcher.Strategy
}

func newSetup(id int, strategy searcher.Strategy, walks, bufferSize, restarts int) runSetup {
	return runSetup{
		RunConfig: metrics.RunConfig{
			ID:         id,
			Strategy:   strategy.String(),
			Walks:      walks,
			BufferSize: bufferSize,
			Restarts:   restarts,
		},
		strategy: strategy,
	}
}

var strategySetups = []runSetup{
	newSetup(1, searcher.ExhaustFromRoot, WalkBudget, 1, 1),
	newSetup(2, searcher.UniformPerDepth, WalkBudget, 1, 1),
	newSetup(3, searcher.UniformPerDepth, WalkBudget, 1, 4),
	newSetup(4, searcher.ExhaustFromRoot, WalkBudget, 8, 1),
	newSetup(5, searcher.UniformPerDepth, WalkBudget, 8, 1),
}

// RunStrategyExperiment compares budget strategies, restart counts and
// buffer sizes over repeated searches of the demo grammar, scored by the
// offline bigram model.
func RunStrategyExperiment() {
	runExperiment("strategy", strategySetups)
}

func runExperiment(name string, setups []runSetup) {
	count := 0
	searchRecords := []metrics.SearchRecord{}
	summaryRecords := []metrics.SummaryRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for si, setup := range setups {
		log.Info().Msgf("starting setup %d of %d: %+v...", si+1, len(setups), setup.RunConfig)

		scores := []float64{}
		for i := 0; i < SearchesPerConfig; i++ {
			count++
			record, history := runSearch(setup, uint64(count))
			searchRecords = append(searchRecords, record)
			scores = append(scores, history...)

			log.Info().Msgf("completed setup %d of %d search %d of %d with best score %.4f", si+1, len(setups), i+1, SearchesPerConfig, record.BestScore)
		}
		summaryRecords = append(summaryRecords, metrics.SummaryRecord{
			Config:  setup.ID,
			Summary: metrics.Summarize(scores),
		})
		log.Info().Msgf("completed setup %d of %d", si+1, len(setups))
	}

	log.Info().Msgf("completed %s experiment", name)

	// Store experiment metadata
	writer, err := metrics.NewWriter(name)
	if err != nil {
		panic(fmt.Sprintf("failed to create experiment writer: %v", err))
	}

	configs := make([]metrics.RunConfig, len(setups))
	for i, setup := range setups {
		configs[i] = setup.RunConfig
	}
	err = writer.WriteRunConfigs(configs)
	if err != nil {
		panic(fmt.Sprintf("failed to store run configs: %v", err))
	}
	log.Info().Msg("stored run configs")

	// Store experiment results
	err = writer.WriteSearchRecords(searchRecords)
	if err != nil {
		panic(fmt.Sprintf("failed to write search records: %v", err))
	}
	log.Info().Msg("stored search records")

	err = writer.WriteSummaries(summaryRecords)
	if err != nil {
		panic(fmt.Sprintf("failed to write score summaries: %v", err))
	}
	log.Info().Msgf("stored score summaries under %s", writer.BaseDir())
}

// runSearch executes a single seeded search and returns its record together
// with the full score history.
func runSearch(setup runSetup, seed uint64) (metrics.SearchRecord, []float64) {
	g, err := grammar.New(DemoGrammar, grammar.WithSeed(seed))
	if err != nil {
		panic(fmt.Sprintf("failed to build demo grammar: %v", err))
	}
	bigram, err := scorer.NewBigram(DemoCorpus)
	if err != nil {
		panic(fmt.Sprintf("failed to build bigram scorer: %v", err))
	}

	mcts := searcher.NewMCTS(bigram,
		searcher.WithStrategy(setup.strategy),
		searcher.WithBufferSize(setup.BufferSize),
		searcher.WithRestarts(setup.Restarts),
		searcher.WithMetrics(),
	)

	result, err := mcts.Search(context.Background(), g.Root(), setup.Walks)
	if err != nil {
		panic(fmt.Sprintf("search failed: %v", err))
	}

	record := metrics.SearchRecord{
		RunID:        uuid.NewString(),
		Config:       setup.ID,
		BestScore:    result.Score,
		BestText:     result.Text,
		SearchMetric: mcts.Metric(),
	}
	return record, mcts.ScoreHistory()
}
