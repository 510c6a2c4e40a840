package github

import "time"

// User identifies the authenticated GitHub user.
type User struct {
	Login  string `json:"login"`
	NodeID string `json:"node_id"`
}

// MilestoneRef is the milestone attached to an issue, carried by title only.
// Milestone numbers are repository-scoped and not portable across repositories.
type MilestoneRef struct {
	Title string `json:"title"`
}

// Issue is the subset of a GitHub issue the clone workflow operates on.
type Issue struct {
	Number    int           `json:"number"`
	NodeID    string        `json:"node_id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	Labels    []string      `json:"labels"`
	Milestone *MilestoneRef `json:"milestone,omitempty"`
}

// Milestone is a repository milestone.
type Milestone struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	State       string     `json:"state"`
	DueOn       *time.Time `json:"due_on,omitempty"`
}

// Repository carries the repository settings the provisioner inspects.
type Repository struct {
	NodeID      string `json:"node_id"`
	Name        string `json:"name"`
	Private     bool   `json:"private"`
	HasIssues   bool   `json:"has_issues"`
	HasProjects bool   `json:"has_projects"`
}

// RepositorySettings are the settings applied when creating or updating a
// repository.
type RepositorySettings struct {
	Name        string
	Private     bool
	HasIssues   bool
	HasProjects bool
}

// NewIssue is a request to create an issue.
type NewIssue struct {
	Title     string
	Body      string
	Assignees []string
	Milestone *int
	Labels    []string
}

// NewMilestone is a request to create a milestone.
type NewMilestone struct {
	Title       string
	Description string
	State       string
	DueOn       *time.Time
}

// Project is a GitHub Projects (V2) board.
type Project struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Public              bool   `json:"public"`
	LinkedRepositoryIDs []string
}
