// Package nonce hands out strictly increasing nonces per sender address.
package nonce

import (
	"context"
	"fmt"
	"sync"

	"github.com/Klingon-tech/strata-agent/internal/log"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// HintSource supplies the node's view of an account's next nonce.
// *query.Client satisfies it.
type HintSource interface {
	NonceHint(ctx context.Context, addr types.Address, net types.Network) (uint64, error)
}

// Sequencer allocates nonces per address. The first allocation for an
// address asks the node for a hint; later ones count up locally, so a
// burst of transactions from one sender gets consecutive nonces even
// before the node has seen any of them.
//
// Allocations for different addresses never block each other; only
// allocations for the same address serialize.
type Sequencer struct {
	source HintSource
	net    types.Network

	mu    sync.Mutex
	lanes map[types.Address]*lane
}

// lane tracks one address. Its own mutex covers the node round-trip so
// a slow hint fetch for one sender does not hold up the others.
type lane struct {
	mu     sync.Mutex
	next   uint64
	primed bool
}

// NewSequencer creates a sequencer backed by the given hint source.
func NewSequencer(source HintSource, net types.Network) *Sequencer {
	return &Sequencer{
		source: source,
		net:    net,
		lanes:  make(map[types.Address]*lane),
	}
}

func (s *Sequencer) lane(addr types.Address) *lane {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lanes[addr]
	if !ok {
		l = &lane{}
		s.lanes[addr] = l
	}
	return l
}

// Next allocates the next nonce for addr.
func (s *Sequencer) Next(ctx context.Context, addr types.Address) (uint64, error) {
	l := s.lane(addr)
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.primed {
		hint, err := s.source.NonceHint(ctx, addr, s.net)
		if err != nil {
			return 0, fmt.Errorf("fetch nonce hint: %w", err)
		}
		l.next = hint
		l.primed = true
		log.Tx.Debug().
			Str("address", addr.Encode(s.net)).
			Uint64("hint", hint).
			Msg("nonce lane primed")
	}

	n := l.next
	l.next++
	return n, nil
}

// Reset forgets the local counter for addr. The next allocation asks the
// node again. Call this after a rejected broadcast so a nonce gap does
// not strand the lane.
func (s *Sequencer) Reset(addr types.Address) {
	l := s.lane(addr)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.primed = false
	l.next = 0
}

// Peek reports the nonce the next allocation for addr would return,
// without allocating. The second result is false when the lane has not
// been primed yet.
func (s *Sequencer) Peek(addr types.Address) (uint64, bool) {
	l := s.lane(addr)
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next, l.primed
}
