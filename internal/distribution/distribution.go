// Package distribution decides which team member receives a new lead.
package distribution

import (
	"errors"
	"sort"

	"zillowlike.app/api/internal/model"
)

var ErrNoEligibleRealtor = errors.New("no eligible realtor in team")

// Reason explains why a realtor was picked. It is recorded on the ASSIGNED lead event.
type Reason string

const (
	ReasonPreferred  Reason = "preferred"
	ReasonCapturer   Reason = "capturer"
	ReasonRoundRobin Reason = "round_robin"
)

type Request struct {
	Mode      model.DistributionMode
	Members   []model.TeamMember
	Capturer  *int64 // user who captured the listing (property owner)
	Preferred *int64 // realtor the contact already talks to
}

type Decision struct {
	RealtorID int64
	Reason    Reason
	// Rotated is set when the queue moved; NewPosition is the chosen member's new queue_position.
	Rotated     bool
	NewPosition int
}

// Pick selects a realtor. Only round-robin picks rotate the queue.
func Pick(req Request) (Decision, error) {
	eligible := Eligible(req.Members)
	if len(eligible) == 0 {
		return Decision{}, ErrNoEligibleRealtor
	}

	if req.Preferred != nil && contains(eligible, *req.Preferred) {
		return Decision{RealtorID: *req.Preferred, Reason: ReasonPreferred}, nil
	}

	if req.Mode == model.DistributionCapturerFirst && req.Capturer != nil && contains(eligible, *req.Capturer) {
		return Decision{RealtorID: *req.Capturer, Reason: ReasonCapturer}, nil
	}

	head := eligible[0]
	return Decision{
		RealtorID:   head.UserID,
		Reason:      ReasonRoundRobin,
		Rotated:     true,
		NewPosition: maxPosition(req.Members) + 1,
	}, nil
}

// Eligible returns active members ordered by queue_position, ties broken by user id.
func Eligible(members []model.TeamMember) []model.TeamMember {
	out := make([]model.TeamMember, 0, len(members))
	for _, m := range members {
		if m.Active {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].QueuePosition != out[j].QueuePosition {
			return out[i].QueuePosition < out[j].QueuePosition
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// Reorder assigns positions 0..n-1 following order. Members missing from order keep
// their relative order and are appended after the listed ones.
func Reorder(members []model.TeamMember, order []int64) map[int64]int {
	positions := make(map[int64]int, len(members))
	known := make(map[int64]bool, len(members))
	for _, m := range members {
		known[m.UserID] = true
	}

	next := 0
	for _, uid := range order {
		if !known[uid] {
			continue
		}
		if _, seen := positions[uid]; seen {
			continue
		}
		positions[uid] = next
		next++
	}

	rest := make([]model.TeamMember, 0, len(members))
	for _, m := range members {
		if _, ok := positions[m.UserID]; !ok {
			rest = append(rest, m)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].QueuePosition != rest[j].QueuePosition {
			return rest[i].QueuePosition < rest[j].QueuePosition
		}
		return rest[i].UserID < rest[j].UserID
	})
	for _, m := range rest {
		positions[m.UserID] = next
		next++
	}
	return positions
}

func contains(members []model.TeamMember, userID int64) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func maxPosition(members []model.TeamMember) int {
	maxPos := 0
	for i, m := range members {
		if i == 0 || m.QueuePosition > maxPos {
			maxPos = m.QueuePosition
		}
	}
	return maxPos
}
