package loadtest_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/guid-writer/internal/loadtest"
)

var _ = Describe("Stages", func() {
	Describe("ParseStages", func() {
		It("should parse duration:target pairs", func() {
			stages, err := loadtest.ParseStages("1m:10, 3m:10,1m:0")
			Expect(err).NotTo(HaveOccurred())
			Expect(stages).To(Equal([]loadtest.Stage{
				{Duration: time.Minute, Target: 10},
				{Duration: 3 * time.Minute, Target: 10},
				{Duration: time.Minute, Target: 0},
			}))
		})

		DescribeTable("should reject malformed input",
			func(in string) {
				_, err := loadtest.ParseStages(in)
				Expect(err).To(HaveOccurred())
			},
			Entry("empty", ""),
			Entry("missing target", "1m"),
			Entry("bad duration", "soon:10"),
			Entry("bad target", "1m:many"),
			Entry("negative target", "1m:-1"),
			Entry("zero duration", "0s:5"),
		)
	})

	Describe("Profiles", func() {
		It("should run the short profile for five minutes", func() {
			Expect(loadtest.TotalDuration(loadtest.Profiles["5min"])).To(Equal(5 * time.Minute))
		})

		It("should run the long profile for two hours", func() {
			Expect(loadtest.TotalDuration(loadtest.Profiles["2h"])).To(Equal(2 * time.Hour))
		})
	})

	Describe("TargetAt", func() {
		stages := []loadtest.Stage{
			{Duration: 10 * time.Second, Target: 10},
			{Duration: 10 * time.Second, Target: 10},
			{Duration: 10 * time.Second, Target: 0},
		}

		It("should ramp up from zero", func() {
			Expect(loadtest.TargetAt(stages, 0)).To(Equal(0))
			Expect(loadtest.TargetAt(stages, 5*time.Second)).To(Equal(5))
		})

		It("should hold a plateau", func() {
			Expect(loadtest.TargetAt(stages, 15*time.Second)).To(Equal(10))
		})

		It("should ramp down", func() {
			Expect(loadtest.TargetAt(stages, 25*time.Second)).To(Equal(5))
		})

		It("should stay at the last target past the end", func() {
			Expect(loadtest.TargetAt(stages, time.Minute)).To(Equal(0))
		})
	})
})

var _ = Describe("Runner", func() {
	var (
		log    *slog.Logger
		hits   atomic.Int64
		status atomic.Int64
		srv    *httptest.Server
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
		hits.Store(0)
		status.Store(http.StatusOK)
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(int(status.Load()))
		}))
	})

	AfterEach(func() {
		srv.Close()
	})

	run := func() loadtest.Summary {
		r := loadtest.New(loadtest.Config{
			URL: srv.URL,
			Stages: []loadtest.Stage{
				{Duration: 200 * time.Millisecond, Target: 3},
				{Duration: 300 * time.Millisecond, Target: 3},
			},
			Think: 20 * time.Millisecond,
			Tick:  10 * time.Millisecond,
		}, log)

		summary, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		return summary
	}

	It("should count successful requests", func() {
		summary := run()

		Expect(summary.Total).To(BeNumerically(">", 0))
		Expect(summary.OK).To(Equal(summary.Total))
		Expect(summary.Failed).To(BeZero())
		Expect(summary.StatusCodes).To(HaveKeyWithValue(http.StatusOK, summary.Total))
		Expect(summary.PeakVUs).To(Equal(3))
		Expect(summary.Target).To(Equal(srv.URL))
		Expect(summary.Total).To(BeNumerically("<=", hits.Load()))
	})

	It("should count unexpected statuses as failures", func() {
		status.Store(http.StatusInternalServerError)

		summary := run()

		Expect(summary.Total).To(BeNumerically(">", 0))
		Expect(summary.OK).To(BeZero())
		Expect(summary.Failed).To(Equal(summary.Total))
		Expect(summary.StatusCodes).To(HaveKeyWithValue(http.StatusInternalServerError, summary.Total))
	})

	It("should stop early when the context is cancelled", func() {
		r := loadtest.New(loadtest.Config{
			URL:    srv.URL,
			Stages: []loadtest.Stage{{Duration: time.Hour, Target: 1}},
			Tick:   10 * time.Millisecond,
		}, log)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := r.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(time.Since(start)).To(BeNumerically("<", 5*time.Second))
	})

	It("should record connection errors", func() {
		srv.Close()

		summary := run()

		Expect(summary.Total).To(BeNumerically(">", 0))
		Expect(summary.Errors).To(Equal(summary.Total))
		Expect(summary.StatusCodes).To(BeEmpty())
	})
})
