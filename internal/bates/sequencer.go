// Package bates issues the sequential page identifiers stamped onto every
// rendered image.
package bates

import (
	"fmt"
	"strconv"
	"sync"
)

// Sequencer produces identifiers of the form <TOKEN>_<number>. The counter
// starts at 1, increments on every call and is shared by all bundles in a
// run, so identifiers are globally unique, gap-free and strictly increasing
// in assignment order. An identifier is never reassigned, even when the
// document it was issued for later fails. The mutex keeps the sequence
// intact should callers ever run concurrently.
type Sequencer struct {
	mu    sync.Mutex
	token string
	next  int
}

func NewSequencer(token string) *Sequencer {
	return &Sequencer{token: token, next: 1}
}

// Next returns the next identifier. Numbers below 10000 are zero-padded to
// five digits; from 10000 on the raw digits are emitted, so the identifier
// widens at that boundary. Existing review volumes were produced with this
// formatting, so it is kept as-is.
func (s *Sequencer) Next() string {
	s.mu.Lock()
	n := s.next
	s.next++
	s.mu.Unlock()

	if n < 10000 {
		return fmt.Sprintf("%s_%05d", s.token, n)
	}
	return s.token + "_" + strconv.Itoa(n)
}
