package clone

import "github.com/google/uuid"

// Session holds the state of one authenticated clone request: the caller's
// identity, the destination repository and project ids resolved during setup,
// and the milestone title-to-number map. A Session belongs to exactly one
// request and is never shared across callers.
type Session struct {
	// ID tags log entries belonging to this session.
	ID string

	// Login is the authenticated user's GitHub login.
	Login string

	// OwnerID is the authenticated user's node id.
	OwnerID string

	// RepositoryID is the destination repository's node id, set by the
	// repository provisioner and possibly overridden by the project
	// provisioner when the board already links a repository.
	RepositoryID string

	// ProjectID is the adopted project board's node id.
	ProjectID string

	milestones map[string]int
}

// NewSession creates a session for the given identity.
func NewSession(login, ownerID string) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Login:      login,
		OwnerID:    ownerID,
		milestones: make(map[string]int),
	}
}

// MapMilestone records a title-to-number mapping. The map is append-only: if
// the title is already mapped the existing entry wins and false is returned.
func (s *Session) MapMilestone(title string, number int) bool {
	if _, ok := s.milestones[title]; ok {
		return false
	}
	s.milestones[title] = number
	return true
}

// MilestoneNumber looks up the destination milestone number for a title.
func (s *Session) MilestoneNumber(title string) (int, bool) {
	number, ok := s.milestones[title]
	return number, ok
}

// MilestoneCount returns the number of mapped milestones.
func (s *Session) MilestoneCount() int {
	return len(s.milestones)
}
