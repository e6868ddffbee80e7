package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	breakerConsecutiveFailures = 3
	breakerHalfOpenRequests    = 3
	breakerInterval            = 10 * time.Second
	breakerDefaultTimeout      = 30 * time.Second
)

// breakerTimeouts is how long each named breaker stays open before probing.
var breakerTimeouts = map[string]time.Duration{
	"Redis-Auth":         5 * time.Second,
	"Relay-PostgreSQL":   10 * time.Second,
	"RabbitMQ-Publisher": 30 * time.Second,
}

// NewCircuitBreaker returns a breaker that opens after three consecutive
// failures. The name selects the open timeout and labels state change logs.
func NewCircuitBreaker(name string, log logrus.FieldLogger) *gobreaker.CircuitBreaker {
	if log == nil {
		log = logrus.StandardLogger()
	}

	timeout, ok := breakerTimeouts[name]
	if !ok {
		timeout = breakerDefaultTimeout
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerHalfOpenRequests,
		Interval:    breakerInterval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			entry := log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			if to == gobreaker.StateOpen {
				entry.Error("circuit breaker state changed")
				return
			}
			entry.Warn("circuit breaker state changed")
		},
	})
}
