// Package circuit trips after repeated failures of a primary dependency so
// callers can switch to a fallback until it recovers.
package circuit

import "sync"

// Transition reports a state change caused by a recorded outcome.
type Transition int

const (
	NoChange Transition = iota
	Opened
	Closed
)

const (
	DefaultFailureThreshold = 5
	DefaultSuccessThreshold = 3
)

// Breaker is a two-state breaker. It opens after FailureThreshold consecutive
// failures and closes after SuccessThreshold consecutive successes while open.
type Breaker struct {
	name             string
	failureThreshold int
	successThreshold int

	mu        sync.Mutex
	open      bool
	failures  int
	successes int
}

type Option func(*Breaker)

// WithFailureThreshold ignores values below one.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold ignores values below one.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: DefaultFailureThreshold,
		successThreshold: DefaultSuccessThreshold,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string {
	return b.name
}

// Open reports whether callers should prefer the fallback.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Record counts the outcome of one call to the primary. A nil err is a success.
func (b *Breaker) Record(err error) Transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		b.successes = 0
		if !b.open && b.failures >= b.failureThreshold {
			b.open = true
			return Opened
		}
		return NoChange
	}

	if !b.open {
		b.failures = 0
		return NoChange
	}
	b.successes++
	if b.successes >= b.successThreshold {
		b.open = false
		b.failures = 0
		b.successes = 0
		return Closed
	}
	return NoChange
}
