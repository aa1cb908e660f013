// Package bench sends one request repeatedly under a rate limit and
// concurrency cap and reports latency percentiles. It is a measurement
// aid for the CLI, not a load testing framework.
package bench

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/wirehttp/wirehttp/packages/client"
)

// Config controls one bench run.
type Config struct {
	Requests    int     // total requests to send
	Rate        float64 // requests per second; zero means unthrottled
	Concurrency int     // max in-flight requests
}

func DefaultConfig() *Config {
	return &Config{
		Requests:    100,
		Concurrency: 10,
	}
}

// Run sends cfg.Requests copies of req through c and returns the
// aggregated summary. It stops early when ctx is canceled; requests
// already started are still counted.
func Run(ctx context.Context, c *client.Client, req *client.Request, cfg *Config) (*Summary, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	metrics := NewMetrics()
	metrics.Start()

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

loop:
	for i := 0; i < cfg.Requests; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break loop
			}
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break loop
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			resp, err := c.Do(req)
			if err != nil {
				metrics.RecordError()
				return
			}
			metrics.RecordResponse(resp.StatusCode, resp.Duration)
		}()
	}

	wg.Wait()
	metrics.Stop()
	return metrics.Summary(), ctx.Err()
}
