package loadtest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	URL          string
	Method       string
	Stages       []Stage
	Think        time.Duration
	Timeout      time.Duration
	ExpectStatus int
	Tick         time.Duration
}

func (c Config) withDefaults() Config {
	if c.Method == "" {
		c.Method = http.MethodGet
	}
	if c.Think == 0 {
		c.Think = time.Second
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.ExpectStatus == 0 {
		c.ExpectStatus = http.StatusOK
	}
	if c.Tick == 0 {
		c.Tick = 100 * time.Millisecond
	}
	return c
}

// Runner drives virtual users against one URL. Each user requests, checks
// the status and waits Think before the next request.
type Runner struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Runner {
	cfg = cfg.withDefaults()
	return &Runner{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Run executes the ramp and returns once every stage has elapsed or ctx is
// done. Requests cut off by the end of the run are not counted.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, TotalDuration(r.cfg.Stages))
	defer cancel()

	res := newResults()
	g, gctx := errgroup.WithContext(ctx)

	var (
		vus  []context.CancelFunc
		peak int
	)

	start := time.Now()
	scale := func() {
		want := TargetAt(r.cfg.Stages, time.Since(start))

		for len(vus) < want {
			vctx, vcancel := context.WithCancel(gctx)
			vus = append(vus, vcancel)
			g.Go(func() error {
				r.vu(vctx, res)
				return nil
			})
		}
		for len(vus) > want {
			last := len(vus) - 1
			vus[last]()
			vus = vus[:last]
		}

		if len(vus) > peak {
			peak = len(vus)
			r.logger.Debug("Scaled virtual users", slog.Int("vus", peak))
		}
	}

	ticker := time.NewTicker(r.cfg.Tick)
	defer ticker.Stop()

	scale()
loop:
	for {
		select {
		case <-gctx.Done():
			break loop
		case <-ticker.C:
			scale()
		}
	}

	for _, stop := range vus {
		stop()
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	s := res.summarize()
	s.Target = r.cfg.URL
	s.Duration = time.Since(start)
	s.PeakVUs = peak

	return s, nil
}

func (r *Runner) vu(ctx context.Context, res *results) {
	think := time.NewTimer(0)
	defer think.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-think.C:
		}

		start := time.Now()
		status, err := r.hit(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			r.logger.Debug("Request failed", slog.Any("err", err))
		}
		res.record(status, time.Since(start), r.cfg.ExpectStatus)

		think.Reset(r.cfg.Think)
	}
}

func (r *Runner) hit(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, r.cfg.Method, r.cfg.URL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
