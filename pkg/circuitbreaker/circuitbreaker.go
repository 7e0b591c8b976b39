package circuitbreaker

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = gobreaker.ErrOpenState

type Settings struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	maxFailures := settings.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	return &CircuitBreaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        settings.Name,
			MaxRequests: settings.MaxRequests,
			Interval:    settings.Interval,
			Timeout:     settings.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state changed")
			},
		}),
	}
}

func (c *CircuitBreaker) Execute(fn func() error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

func (c *CircuitBreaker) State() string {
	return c.cb.State().String()
}
