package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type RunConfig struct {
	ID         int
	Strategy   string
	Walks      int
	BufferSize int
	Restarts   int
}

type SearchRecord struct {
	RunID     string // unique per search
	Config    int    // RunConfig.ID
	BestScore float64
	BestText  string
	SearchMetric
}

type SummaryRecord struct {
	Config int // RunConfig.ID
	Summary
}

type Writer struct {
	baseDir string
}

func NewWriter(name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("experiments", name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) BaseDir() string {
	return w.baseDir
}

func (w *Writer) WriteRunConfigs(configs []RunConfig) error {
	// Create a file
	path := filepath.Join(w.baseDir, "run_configs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create run configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{"id", "strategy", "walks", "buffer_size", "restarts"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write run configs header: %w", err)
	}

	// Write each row
	for _, config := range configs {
		row := []string{
			strconv.Itoa(config.ID),
			config.Strategy,
			strconv.Itoa(config.Walks),
			strconv.Itoa(config.BufferSize),
			strconv.Itoa(config.Restarts),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write run config row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteSearchRecords(records []SearchRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "search_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create search records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{"run_id", "config", "best_score", "best_text", "duration", "walks", "flushes", "scored_leaves", "dead_ends", "advances"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write search records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			record.RunID,
			strconv.Itoa(record.Config),
			strconv.FormatFloat(record.BestScore, 'g', -1, 64),
			record.BestText,
			record.Duration.String(),
			strconv.Itoa(record.Walks),
			strconv.Itoa(record.Flushes),
			strconv.Itoa(record.ScoredLeaves),
			strconv.Itoa(record.DeadEnds),
			strconv.Itoa(record.Advances),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write search record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteSummaries(records []SummaryRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "score_summaries.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create score summaries file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{"config", "count", "mean", "stddev", "min", "q1", "median", "q3", "max"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write score summaries header: %w", err)
	}

	// Write each row
	formatScore := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Config),
			strconv.Itoa(record.Count),
			formatScore(record.Mean),
			formatScore(record.StdDev),
			formatScore(record.Min),
			formatScore(record.Q1),
			formatScore(record.Median),
			formatScore(record.Q3),
			formatScore(record.Max),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write score summary row: %w", err)
		}
	}

	return nil
}
