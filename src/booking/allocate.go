package booking

import (
	"math/rand/v2"
	"pms/src/models"
	"sort"
	"time"
)

// Strategy picks count units out of the filtered candidate set. Allocation
// policy is swappable without touching filtering or verification.
type Strategy interface {
	Allocate(candidates []*models.Unit, count uint) ([]*models.Unit, error)
}

// RandomStrategy shuffles the candidates and takes the first count, spreading
// wear across units instead of always assigning the low numbers. Determinism
// is explicitly not guaranteed.
type RandomStrategy struct{}

func (RandomStrategy) Allocate(candidates []*models.Unit, count uint) ([]*models.Unit, error) {
	if uint(len(candidates)) < count {
		return nil, &InsufficientError{Requested: count, Free: uint(len(candidates))}
	}
	shuffled := make([]*models.Unit, len(candidates))
	copy(shuffled, candidates)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count], nil
}

// LeastRecentlyUsedStrategy prefers the units whose latest stay ended longest
// ago. Units with no stays at all sort first.
type LeastRecentlyUsedStrategy struct{}

func (LeastRecentlyUsedStrategy) Allocate(candidates []*models.Unit, count uint) ([]*models.Unit, error) {
	if uint(len(candidates)) < count {
		return nil, &InsufficientError{Requested: count, Free: uint(len(candidates))}
	}
	ordered := make([]*models.Unit, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return lastUsed(ordered[i]).Before(lastUsed(ordered[j]))
	})
	return ordered[:count], nil
}

func lastUsed(u *models.Unit) time.Time {
	var latest time.Time
	for _, stay := range u.Stays {
		if stay.EndAt != nil && stay.EndAt.After(latest) {
			latest = *stay.EndAt
		}
	}
	return latest
}
