package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Strategy     string
	BufferSize   int
	Restarts     int
	Duration     time.Duration
	Walks        int
	Flushes      int
	ScoredLeaves int
	DeadEnds     int
	Advances     int
}

type Collector interface {
	Start(strategy string, bufferSize, restarts int)
	AddWalk()
	AddFlush(batch int)
	AddDeadEnd()
	AddAdvance()
	Complete() SearchMetric
}

type collector struct {
	strategy     string
	bufferSize   int
	restarts     int
	startTime    time.Time
	walks        atomic.Int32
	flushes      atomic.Int32
	scoredLeaves atomic.Int32
	deadEnds     atomic.Int32
	advances     atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(strategy string, bufferSize, restarts int) {
	m.startTime = time.Now()
	m.strategy = strategy
	m.bufferSize = bufferSize
	m.restarts = restarts
}

func (m *collector) AddWalk() {
	m.walks.Add(1)
}

func (m *collector) AddFlush(batch int) {
	m.flushes.Add(1)
	m.scoredLeaves.Add(int32(batch))
}

func (m *collector) AddDeadEnd() {
	m.deadEnds.Add(1)
}

func (m *collector) AddAdvance() {
	m.advances.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Strategy:     m.strategy,
		BufferSize:   m.bufferSize,
		Restarts:     m.restarts,
		Duration:     time.Since(m.startTime),
		Walks:        int(m.walks.Load()),
		Flushes:      int(m.flushes.Load()),
		ScoredLeaves: int(m.scoredLeaves.Load()),
		DeadEnds:     int(m.deadEnds.Load()),
		Advances:     int(m.advances.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(strategy string, bufferSize, restarts int) {}
func (m *dummyCollector) AddWalk()                                        {}
func (m *dummyCollector) AddFlush(batch int)                              {}
func (m *dummyCollector) AddDeadEnd()                                     {}
func (m *dummyCollector) AddAdvance()                                     {}
func (m *dummyCollector) Complete() SearchMetric                          { return SearchMetric{} }
