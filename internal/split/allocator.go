// Package split holds the pure money-splitting arithmetic: the equal-split
// allocator that decomposes a bill total into per-participant shares, and the
// greedy settlement helper. No persistence, no I/O.
package split

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"share-ledger/internal/domain"
	"share-ledger/internal/util"
)

var hundred = decimal.NewFromInt(100)

// Allocator splits bill totals into near-equal shares. The random source
// decides which participants absorb the leftover cents, so that no single
// participant is systematically penalized across many bills. Inject a seeded
// source in tests to make allocations reproducible.
type Allocator struct {
	rng *rand.Rand
}

// NewAllocator returns an Allocator using the given random source.
// A nil source falls back to a time-seeded one.
func NewAllocator(rng *rand.Rand) *Allocator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Allocator{rng: rng}
}

// Allocate splits total equally across the participants and returns one
// negative share per participant. All arithmetic is in integer cents:
// every share is either base or base minus one cent, and the shares sum to
// exactly -total. Which participants take the extra cent is a uniform
// shuffle.
//
// total must be positive and representable in whole cents; an empty
// participant list is rejected before any division happens.
func (a *Allocator) Allocate(total decimal.Decimal, participants []int64) ([]domain.Allocation, error) {
	if len(participants) == 0 {
		return nil, util.ErrNoParticipants
	}

	cents := total.Mul(hundred)
	if !total.IsPositive() || !cents.Equal(cents.Truncate(0)) {
		return nil, util.ErrInvalidAmount
	}

	n := int64(len(participants))
	totalCents := cents.IntPart()
	baseCents := totalCents / n
	missingCents := totalCents % n

	// perm[i] < missingCents marks the participants that absorb one extra cent.
	perm := a.rng.Perm(len(participants))

	allocations := make([]domain.Allocation, len(participants))
	for i, accountID := range participants {
		share := baseCents
		if int64(perm[i]) < missingCents {
			share++
		}
		allocations[i] = domain.Allocation{
			AccountID: accountID,
			Amount:    decimal.New(-share, -2),
		}
	}
	return allocations, nil
}
