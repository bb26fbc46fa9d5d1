package enrichment

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const (
	failureProbability  = 0.1
	omissionProbability = 0.3
	fieldDropChance     = 0.5

	ReasonSimulatorUnavailable = "enrichment service temporarily unavailable"
	ReasonCancelled            = "enrichment cancelled"
)

// Rand is the randomness the simulator draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Simulator stands in for the external provider. It derives plausible
// company data from the email domain with synthetic latency, failures and
// missing fields.
type Simulator struct {
	rnd        Rand
	sleep      SleepFunc
	minLatency time.Duration
	jitter     time.Duration
}

type SimulatorOption func(*Simulator)

func WithRand(r Rand) SimulatorOption {
	return func(s *Simulator) { s.rnd = r }
}

func WithSleep(fn SleepFunc) SimulatorOption {
	return func(s *Simulator) { s.sleep = fn }
}

func WithLatency(minLatency, jitter time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.minLatency = minLatency
		s.jitter = jitter
	}
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		rnd:        globalRand{},
		sleep:      sleepContext,
		minLatency: 500 * time.Millisecond,
		jitter:     time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Enrich(ctx context.Context, email string) entity.EnrichmentOutcome {
	delay := s.minLatency + time.Duration(s.rnd.Float64()*float64(s.jitter))
	if err := s.sleep(ctx, delay); err != nil {
		return entity.EnrichmentFailure(ReasonCancelled, entity.SourceSimulator)
	}

	if s.rnd.Float64() < failureProbability {
		return entity.EnrichmentFailure(ReasonSimulatorUnavailable, entity.SourceSimulator)
	}

	domain := domainOf(email)
	data := entity.EnrichmentData{
		CompanyName: companyNameFor(domain),
		CompanySize: entity.CompanySizes[s.rnd.IntN(len(entity.CompanySizes))],
		Industry:    industryFor(domain),
		Country:     SimulatedCountries[s.rnd.IntN(len(SimulatedCountries))],
	}

	// Outer draw gates two independent drops. Name and country always survive.
	if s.rnd.Float64() < omissionProbability {
		if s.rnd.Float64() < fieldDropChance {
			data.CompanySize = ""
		}
		if s.rnd.Float64() < fieldDropChance {
			data.Industry = ""
		}
	}

	return entity.EnrichmentSuccess(data, entity.SourceSimulator)
}
