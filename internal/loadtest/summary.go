package loadtest

import (
	"sort"
	"sync"
	"time"
)

type Summary struct {
	Target      string        `json:"target"`
	Duration    time.Duration `json:"duration"`
	Total       int64         `json:"total"`
	OK          int64         `json:"ok"`
	Failed      int64         `json:"failed"`
	Errors      int64         `json:"errors"`
	StatusCodes map[int]int64 `json:"status_codes"`
	PeakVUs     int           `json:"peak_vus"`
	Avg         time.Duration `json:"avg"`
	P50         time.Duration `json:"p50"`
	P95         time.Duration `json:"p95"`
	P99         time.Duration `json:"p99"`
	Max         time.Duration `json:"max"`
}

type results struct {
	mutex       sync.Mutex
	total       int64
	ok          int64
	failed      int64
	errors      int64
	statusCodes map[int]int64
	latencies   []time.Duration
}

func newResults() *results {
	return &results{statusCodes: make(map[int]int64)}
}

// record stores one request. status is 0 when no response came back.
func (r *results) record(status int, d time.Duration, expect int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.total++
	r.latencies = append(r.latencies, d)

	switch {
	case status == 0:
		r.errors++
		r.failed++
	case status == expect:
		r.statusCodes[status]++
		r.ok++
	default:
		r.statusCodes[status]++
		r.failed++
	}
}

func (r *results) summarize() Summary {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	s := Summary{
		Total:       r.total,
		OK:          r.ok,
		Failed:      r.failed,
		Errors:      r.errors,
		StatusCodes: make(map[int]int64, len(r.statusCodes)),
	}
	for k, v := range r.statusCodes {
		s.StatusCodes[k] = v
	}

	if len(r.latencies) == 0 {
		return s
	}

	sorted := make([]time.Duration, len(r.latencies))
	copy(sorted, r.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	s.Avg = sum / time.Duration(len(sorted))
	s.P50 = pick(sorted, 0.50)
	s.P95 = pick(sorted, 0.95)
	s.P99 = pick(sorted, 0.99)
	s.Max = sorted[len(sorted)-1]

	return s
}

func pick(sorted []time.Duration, p float64) time.Duration {
	return sorted[int(float64(len(sorted)-1)*p)]
}
