package checkout

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banmai-pos/console/internal/enum"
)

// Verification progress for one gateway transaction. The explicit
// in-flight state is what makes the verify call at-most-once: a second
// redirect arriving mid-verification can neither start another call nor
// read a result that does not exist yet.
const (
	verifyNotStarted = iota
	verifyInFlight
	verifyDone
)

// Attempt correlates a gateway transaction with the terminal and order it
// was opened for.
type Attempt struct {
	TxnRef     string
	TerminalID uuid.UUID
	OrderID    uuid.UUID
	Amount     decimal.Decimal
}

// Outcome is the recorded terminal result of a verification.
type Outcome struct {
	Status  string
	Message string
}

type attemptRecord struct {
	Attempt
	state   int
	outcome *Outcome
}

// Registry tracks pending gateway attempts in process memory. Attempts
// are keyed by the gateway's transaction reference, which is the only
// identifier present on the return redirect.
//
// TODO: evict finished attempts after a retention window; the map grows
// for the process lifetime.
type Registry struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord
}

func NewRegistry() *Registry {
	return &Registry{attempts: make(map[string]*attemptRecord)}
}

func (r *Registry) Add(a Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[a.TxnRef] = &attemptRecord{Attempt: a, state: verifyNotStarted}
}

// Claim attempts the NotStarted -> InFlight transition. It returns the
// attempt, whether the caller won the claim, and the recorded outcome
// when verification already finished. An unknown txnRef returns
// claimed=false with a zero attempt.
func (r *Registry) Claim(txnRef string) (Attempt, bool, *Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.attempts[txnRef]
	if !ok {
		return Attempt{}, false, nil
	}
	switch rec.state {
	case verifyNotStarted:
		rec.state = verifyInFlight
		return rec.Attempt, true, nil
	case verifyDone:
		return rec.Attempt, false, rec.outcome
	default: // in flight
		return rec.Attempt, false, nil
	}
}

// Finish records the outcome for a claimed attempt. Duplicate redirects
// from then on read the recorded outcome instead of re-verifying.
func (r *Registry) Finish(txnRef string, o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.attempts[txnRef]; ok {
		rec.state = verifyDone
		rec.outcome = &o
	}
}

// Fail marks a known attempt as failed without any verification having
// run, for redirects whose response code already says the payment did not
// happen. It reports whether the txnRef was known and not yet finished.
func (r *Registry) Fail(txnRef, message string) (Attempt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.attempts[txnRef]
	if !ok || rec.state == verifyDone {
		return Attempt{}, false
	}
	rec.state = verifyDone
	rec.outcome = &Outcome{Status: enum.ReturnStatusFailed, Message: message}
	return rec.Attempt, true
}
