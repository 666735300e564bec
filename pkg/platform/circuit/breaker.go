// Package circuit provides a simple circuit breaker for fail-closed remote lookups.
package circuit

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is healthy and requests flow normally.
	StateClosed State = iota
	// StateOpen means the circuit has tripped and callers should short-circuit.
	StateOpen
)

// Breaker tracks consecutive failures for fail-closed operations.
// When closed, requests flow normally. After FailureThreshold consecutive
// failures, the circuit opens. After SuccessThreshold consecutive successes
// while open, the circuit closes again.
type Breaker struct {
	mu               sync.Mutex
	state            State
	name             string
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
	probeInterval    time.Duration
	lastAttempt      time.Time
	onStateChange    func(name string, state State)
	now              func() time.Time
}

// Option configures a Breaker instance.
type Option func(*Breaker)

// WithFailureThreshold sets the number of consecutive failures to open the circuit.
// Default is 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets the number of consecutive successes to close the circuit.
// Default is 3.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithOnStateChange registers a callback invoked on every open/close
// transition. Used to keep the breaker state gauge current.
func WithOnStateChange(fn func(name string, state State)) Option {
	return func(b *Breaker) {
		b.onStateChange = fn
	}
}

// WithProbeInterval sets how often a probe attempt is let through while the
// circuit is open. Default is 30 seconds.
func WithProbeInterval(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.probeInterval = d
		}
	}
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a circuit breaker with the given name and options.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		successThreshold: 3,
		probeInterval:    30 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name returns the circuit breaker's name for logging/metrics.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a request may proceed. When the circuit is open the
// caller must short-circuit to its fail-closed result without doing I/O,
// except for one probe attempt per probe interval which is let through so
// successes can close the circuit again.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateClosed {
		return true
	}
	if b.now().Sub(b.lastAttempt) >= b.probeInterval {
		b.lastAttempt = b.now()
		return true
	}
	return false
}

// RecordSuccess notes a successful operation. While open, enough consecutive
// successes close the circuit again.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount = 0
	if b.state != StateOpen {
		return
	}
	b.successCount++
	if b.successCount >= b.successThreshold {
		b.state = StateClosed
		b.successCount = 0
		b.notifyLocked()
	}
}

// RecordFailure notes a failed operation. Enough consecutive failures while
// closed open the circuit.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successCount = 0
	if b.state != StateClosed {
		return
	}
	b.failureCount++
	if b.failureCount >= b.failureThreshold {
		b.state = StateOpen
		b.failureCount = 0
		b.lastAttempt = b.now()
		b.notifyLocked()
	}
}

func (b *Breaker) notifyLocked() {
	if b.onStateChange != nil {
		b.onStateChange(b.name, b.state)
	}
}
