package scraper

import (
	"context"
	"math/rand"
	"time"
)

var defaultAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// PaceConfig carries the pacing policy shared by all adapters.
type PaceConfig struct {
	DelayMin time.Duration
	DelayMax time.Duration
	Agents   []string
}

// Governor paces outbound requests with a randomized inter-request delay and
// rotates the request identity. One Governor belongs to exactly one adapter
// invocation; concurrent runs each build their own and need no locking.
type Governor struct {
	delayMin time.Duration
	delayMax time.Duration
	agents   []string
	rng      *rand.Rand
	next     int
}

// NewGovernor builds a governor for one scrape run. Defaults: [2s, 4s] delay,
// built-in agent pool.
func NewGovernor(cfg PaceConfig) *Governor {
	if cfg.DelayMin <= 0 {
		cfg.DelayMin = 2 * time.Second
	}
	if cfg.DelayMax < cfg.DelayMin {
		cfg.DelayMax = cfg.DelayMin + 2*time.Second
	}
	agents := cfg.Agents
	if len(agents) == 0 {
		agents = defaultAgents
	}
	return &Governor{
		delayMin: cfg.DelayMin,
		delayMax: cfg.DelayMax,
		agents:   agents,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks for a delay drawn uniformly from [DelayMin, DelayMax], or
// returns early with the context error on cancellation.
func (g *Governor) Wait(ctx context.Context) error {
	delay := g.delayMin
	if span := g.delayMax - g.delayMin; span > 0 {
		delay += time.Duration(g.rng.Int63n(int64(span)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Agent returns the next request identity from the pool.
func (g *Governor) Agent() string {
	agent := g.agents[g.next%len(g.agents)]
	g.next++
	return agent
}
