package main

import (
	"fmt"
	"os"

	"gensearch/experiments"
	"gensearch/gentree"
	"gensearch/grammar"
	"gensearch/scorer"
	"gensearch/searcher"

	"gopkg.in/yaml.v3"
)

// Config drives a single search from the command line. Zero values fall
// back to the built-in demo grammar and corpus.
type Config struct {
	Grammar       string  `yaml:"grammar"`      // inline grammar text
	GrammarFile   string  `yaml:"grammar_file"` // wins over Grammar when set
	Corpus        string  `yaml:"corpus"`
	CorpusFile    string  `yaml:"corpus_file"`
	Strategy      string  `yaml:"strategy"`
	Walks         int     `yaml:"walks"`
	BufferSize    int     `yaml:"buffer_size"`
	Restarts      int     `yaml:"restarts"`
	DeadEndReward float64 `yaml:"dead_end_reward"`
	MaxExpansions int     `yaml:"max_expansions"`
	Seed          uint64  `yaml:"seed"`
	Scorer        string  `yaml:"scorer"` // "bigram" or "openai"
	OpenAIModel   string  `yaml:"openai_model"`
}

func defaultConfig() Config {
	return Config{
		Grammar:    experiments.DemoGrammar,
		Corpus:     experiments.DemoCorpus,
		Strategy:   searcher.UniformPerDepth.String(),
		Walks:      400,
		BufferSize: 4,
		Restarts:   1,
		Scorer:     "bigram",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) strategy() (searcher.Strategy, error) {
	switch c.Strategy {
	case searcher.ExhaustFromRoot.String():
		return searcher.ExhaustFromRoot, nil
	case searcher.UniformPerDepth.String():
		return searcher.UniformPerDepth, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q: want %q or %q",
			c.Strategy, searcher.ExhaustFromRoot, searcher.UniformPerDepth)
	}
}

func (c Config) buildGrammar() (*grammar.Grammar, error) {
	text := c.Grammar
	if c.GrammarFile != "" {
		data, err := os.ReadFile(c.GrammarFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read grammar: %w", err)
		}
		text = string(data)
	}

	options := []grammar.Option{}
	if c.MaxExpansions > 0 {
		options = append(options, grammar.WithMaxExpansions(c.MaxExpansions))
	}
	if c.Seed > 0 {
		options = append(options, grammar.WithSeed(c.Seed))
	}
	return grammar.New(text, options...)
}

func (c Config) buildScorer() (gentree.Scorer, error) {
	switch c.Scorer {
	case "", "bigram":
		corpus := c.Corpus
		if c.CorpusFile != "" {
			data, err := os.ReadFile(c.CorpusFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read corpus: %w", err)
			}
			corpus = string(data)
		}
		b, err := scorer.NewBigram(corpus)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "openai":
		options := []scorer.OpenAIOption{}
		if c.OpenAIModel != "" {
			options = append(options, scorer.WithModel(c.OpenAIModel))
		}
		s, err := scorer.NewOpenAI(options...)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q: want \"bigram\" or \"openai\"", c.Scorer)
	}
}
