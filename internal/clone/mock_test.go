package clone

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/traineetrack/traineetrack/internal/github"
)

// mockAPI is a mock implementation of github.API for testing.
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) GetAuthenticatedUser(ctx context.Context) (*github.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.User), args.Error(1)
}

func (m *mockAPI) ListIssues(ctx context.Context, owner, repo string) ([]*github.Issue, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Issue), args.Error(1)
}

func (m *mockAPI) GetIssue(ctx context.Context, owner, repo string, number int) (*github.Issue, error) {
	args := m.Called(ctx, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.Issue), args.Error(1)
}

func (m *mockAPI) CreateIssue(ctx context.Context, owner, repo string, issue github.NewIssue) (*github.Issue, error) {
	args := m.Called(ctx, owner, repo, issue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.Issue), args.Error(1)
}

func (m *mockAPI) ListMilestones(ctx context.Context, owner, repo, state string) ([]*github.Milestone, error) {
	args := m.Called(ctx, owner, repo, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Milestone), args.Error(1)
}

func (m *mockAPI) CreateMilestone(ctx context.Context, owner, repo string, milestone github.NewMilestone) (*github.Milestone, error) {
	args := m.Called(ctx, owner, repo, milestone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.Milestone), args.Error(1)
}

func (m *mockAPI) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.Repository), args.Error(1)
}

func (m *mockAPI) CreateRepository(ctx context.Context, settings github.RepositorySettings) (*github.Repository, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.Repository), args.Error(1)
}

func (m *mockAPI) UpdateRepository(ctx context.Context, owner, repo string, settings github.RepositorySettings) error {
	args := m.Called(ctx, owner, repo, settings)
	return args.Error(0)
}

func (m *mockAPI) DeleteLabel(ctx context.Context, owner, repo, name string) error {
	args := m.Called(ctx, owner, repo, name)
	return args.Error(0)
}

func (m *mockAPI) ListUserProjects(ctx context.Context, login, query string) ([]*github.Project, error) {
	args := m.Called(ctx, login, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Project), args.Error(1)
}

func (m *mockAPI) LinkProjectToRepository(ctx context.Context, projectID, repositoryID string) error {
	args := m.Called(ctx, projectID, repositoryID)
	return args.Error(0)
}

func (m *mockAPI) MakeProjectPublic(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *mockAPI) AddItemToProject(ctx context.Context, projectID, contentID string) error {
	args := m.Called(ctx, projectID, contentID)
	return args.Error(0)
}
