package github

import "context"

// API is the capability set the clone workflow needs from GitHub. The concrete
// Client implements it over the REST and GraphQL APIs; tests substitute a mock.
type API interface {
	// GetAuthenticatedUser resolves the login and node id of the token's user.
	GetAuthenticatedUser(ctx context.Context) (*User, error)

	// Issue operations. List operations page through all results.
	ListIssues(ctx context.Context, owner, repo string) ([]*Issue, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error)
	CreateIssue(ctx context.Context, owner, repo string, issue NewIssue) (*Issue, error)

	// Milestone operations.
	ListMilestones(ctx context.Context, owner, repo, state string) ([]*Milestone, error)
	CreateMilestone(ctx context.Context, owner, repo string, milestone NewMilestone) (*Milestone, error)

	// Repository operations.
	GetRepository(ctx context.Context, owner, repo string) (*Repository, error)
	CreateRepository(ctx context.Context, settings RepositorySettings) (*Repository, error)
	UpdateRepository(ctx context.Context, owner, repo string, settings RepositorySettings) error
	DeleteLabel(ctx context.Context, owner, repo, name string) error

	// Projects (V2) operations.
	ListUserProjects(ctx context.Context, login, query string) ([]*Project, error)
	LinkProjectToRepository(ctx context.Context, projectID, repositoryID string) error
	MakeProjectPublic(ctx context.Context, projectID string) error
	AddItemToProject(ctx context.Context, projectID, contentID string) error
}
