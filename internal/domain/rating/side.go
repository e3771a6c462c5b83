package rating

import "fmt"

// Side is a group of exactly SideSize participants with an optional goalkeeper.
type Side struct {
	members      [SideSize]*Participant
	goalkeeperID int
	rating       float64
}

// NewSide validates the member count and aggregates the working rating.
// goalkeeperID may be NoGoalkeeper.
func NewSide(members []*Participant, goalkeeperID int) (*Side, error) {
	if len(members) != SideSize {
		return nil, fmt.Errorf("%w: got %d", ErrSideSize, len(members))
	}
	s := &Side{goalkeeperID: goalkeeperID}
	for i, m := range members {
		if m == nil {
			return nil, fmt.Errorf("%w: member %d is nil", ErrSideSize, i)
		}
		s.members[i] = m
		s.rating += m.WorkingRating()
	}
	return s, nil
}

// Members returns the participants in side-local order 0..4.
func (s *Side) Members() []*Participant { return s.members[:] }

// WorkingRating returns the sum of member working ratings.
func (s *Side) WorkingRating() float64 { return s.rating }

// GoalkeeperID returns the designated goalkeeper or NoGoalkeeper.
func (s *Side) GoalkeeperID() int { return s.goalkeeperID }

// IsGoalkeeper reports whether id is this side's goalkeeper.
func (s *Side) IsGoalkeeper(id int) bool {
	return s.goalkeeperID != NoGoalkeeper && s.goalkeeperID == id
}

// Has reports whether id is a member of the side.
func (s *Side) Has(id int) bool {
	for _, m := range s.members {
		if m.ID() == id {
			return true
		}
	}
	return false
}
