package loadtest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Stage ramps the number of virtual users linearly to Target over Duration.
type Stage struct {
	Duration time.Duration `json:"duration"`
	Target   int           `json:"target"`
}

// Profiles are the ramps used to benchmark the deployed function.
var Profiles = map[string][]Stage{
	"5min": {
		{Duration: time.Minute, Target: 10},
		{Duration: 3 * time.Minute, Target: 10},
		{Duration: time.Minute, Target: 0},
	},
	"2h": {
		{Duration: 10 * time.Minute, Target: 100},
		{Duration: 20 * time.Minute, Target: 100},
		{Duration: 10 * time.Minute, Target: 50},
		{Duration: 20 * time.Minute, Target: 50},
		{Duration: 10 * time.Minute, Target: 200},
		{Duration: 20 * time.Minute, Target: 200},
		{Duration: 10 * time.Minute, Target: 0},
		{Duration: 10 * time.Minute, Target: 500},
		{Duration: 10 * time.Minute, Target: 500},
	},
}

// ParseStages reads a comma separated list of duration:target pairs, for
// example "30s:5,1m:5,30s:0".
func ParseStages(s string) ([]Stage, error) {
	var stages []Stage

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		dur, target, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("stage %q: want duration:target", part)
		}

		d, err := time.ParseDuration(dur)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", part, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("stage %q: duration must be positive", part)
		}

		n, err := strconv.Atoi(target)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("stage %q: target must not be negative", part)
		}

		stages = append(stages, Stage{Duration: d, Target: n})
	}

	if len(stages) == 0 {
		return nil, fmt.Errorf("no stages given")
	}

	return stages, nil
}

// TotalDuration is the length of the whole ramp.
func TotalDuration(stages []Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += s.Duration
	}
	return total
}

// TargetAt is the number of virtual users the ramp asks for at elapsed. The
// ramp starts from zero users.
func TargetAt(stages []Stage, elapsed time.Duration) int {
	from := 0
	for _, s := range stages {
		if elapsed < s.Duration {
			frac := float64(elapsed) / float64(s.Duration)
			return from + int(float64(s.Target-from)*frac)
		}
		elapsed -= s.Duration
		from = s.Target
	}
	return from
}
