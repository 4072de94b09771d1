package netxlite

//
// RFC 2782 ordering of SRV targets
//

import (
	"math/rand"
	"sort"

	"github.com/ooni/netservice/internal/model"
)

// SortSRV sorts targets in place by ascending priority and, within the
// same priority, by the weighted random selection described by RFC 2782.
//
// When targets contains a single target whose hostname is "." or empty,
// the domain is telling us that the service is not available and we
// return ErrServiceNotAvailable.
func SortSRV(targets []*model.Target) error {
	if len(targets) == 1 && (targets[0].Hostname == "" || targets[0].Hostname == ".") {
		return ErrServiceNotAvailable
	}
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Priority < targets[j].Priority
	})
	start := 0
	for idx := 1; idx <= len(targets); idx++ {
		if idx == len(targets) || targets[idx].Priority != targets[start].Priority {
			shuffleByWeight(targets[start:idx])
			start = idx
		}
	}
	return nil
}

// shuffleByWeight reorders targets sharing the same priority so that the
// probability of a target coming first is proportional to its weight.
func shuffleByWeight(targets []*model.Target) {
	sum := 0
	for _, t := range targets {
		sum += int(t.Weight)
	}
	for sum > 0 && len(targets) > 1 {
		s := 0
		n := rand.Intn(sum)
		for i := range targets {
			s += int(targets[i].Weight)
			if s > n {
				if i > 0 {
					targets[0], targets[i] = targets[i], targets[0]
				}
				break
			}
		}
		sum -= int(targets[0].Weight)
		targets = targets[1:]
	}
}
