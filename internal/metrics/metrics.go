package metrics

import (
	"maps"
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex          sync.RWMutex
	invocations    map[string]int64
	statusCodes    map[int]int64
	failures       map[string]int64
	writes         map[string]int64
	writeFailures  map[string]int64
	writeTimes     map[string][]time.Duration
	invocationTime []time.Duration
	startTime      time.Time
}

type Snapshot struct {
	TotalInvocations int64                    `json:"total_invocations"`
	Uptime           time.Duration            `json:"uptime"`
	Routes           map[string]int64         `json:"routes"`
	StatusCodes      map[int]int64            `json:"status_codes"`
	Failures         map[string]int64         `json:"failures"`
	AvgInvocation    time.Duration            `json:"avg_invocation"`
	Targets          map[string]TargetMetrics `json:"targets"`
}

type TargetMetrics struct {
	Writes      int64         `json:"writes"`
	Failures    int64         `json:"failures"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
}

func (m *Metrics) IncrementInvocations(route string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.invocations[route]++
}

// RecordWrite counts one call against target, successful or not.
func (m *Metrics) RecordWrite(target string, duration time.Duration, success bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.writes[target]++
	if !success {
		m.writeFailures[target]++
	}
	m.writeTimes[target] = appendSample(m.writeTimes[target], duration)
}

// RecordOutcome counts the response status of a finished invocation. failure
// is empty on success.
func (m *Metrics) RecordOutcome(statusCode int, failure string, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.statusCodes[statusCode]++
	if failure != "" {
		m.failures[failure]++
	}
	m.invocationTime = appendSample(m.invocationTime, duration)
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:        time.Since(m.startTime),
		Routes:        maps.Clone(m.invocations),
		StatusCodes:   maps.Clone(m.statusCodes),
		Failures:      maps.Clone(m.failures),
		AvgInvocation: average(m.invocationTime),
		Targets:       make(map[string]TargetMetrics, len(m.writes)),
	}

	for _, n := range m.invocations {
		snap.TotalInvocations += n
	}

	for target, n := range m.writes {
		tm := TargetMetrics{
			Writes:   n,
			Failures: m.writeFailures[target],
		}

		durations := m.writeTimes[target]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			tm.AvgResponse = average(sorted)
			tm.P50Response = percentile(sorted, 0.50)
			tm.P95Response = percentile(sorted, 0.95)
			tm.P99Response = percentile(sorted, 0.99)
		}

		snap.Targets[target] = tm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		invocations:   make(map[string]int64),
		statusCodes:   make(map[int]int64),
		failures:      make(map[string]int64),
		writes:        make(map[string]int64),
		writeFailures: make(map[string]int64),
		writeTimes:    make(map[string][]time.Duration),
		startTime:     time.Now(),
	}
}

func appendSample(samples []time.Duration, d time.Duration) []time.Duration {
	samples = append(samples, d)
	if len(samples) > maxSamples {
		samples = samples[1:]
	}
	return samples
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
