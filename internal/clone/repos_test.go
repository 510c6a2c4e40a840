package clone

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/traineetrack/traineetrack/internal/github"
)

func testConfig() Config {
	return Config{
		DefaultOwner: "course-org",
		DefaultRepo:  "coursework",
		ProjectQuery: "coursework planner",
	}
}

func newTestOrchestrator(client *mockAPI) (*Orchestrator, *Session) {
	return New(client, testConfig(), zap.NewNop()), NewSession("trainee", "U_node")
}

func notFoundErr(resource string) error {
	return &github.APIError{Kind: github.KindNotFound, Resource: resource, Message: "not found"}
}

func TestEnsureRepository_ExistingSatisfiesInvariants(t *testing.T) {
	client := &mockAPI{}
	orch, sess := newTestOrchestrator(client)

	client.On("GetRepository", mock.Anything, "trainee", "coursework").
		Return(&github.Repository{NodeID: "R_repo", Name: "coursework", HasIssues: true, HasProjects: true}, nil)

	id, err := orch.EnsureRepository(context.Background(), sess, "coursework")

	require.NoError(t, err)
	assert.Equal(t, "R_repo", id)
	assert.Equal(t, "R_repo", sess.RepositoryID)
	client.AssertNotCalled(t, "CreateRepository", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "UpdateRepository", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureRepository_UpdatesDriftedSettings(t *testing.T) {
	client := &mockAPI{}
	orch, sess := newTestOrchestrator(client)

	client.On("GetRepository", mock.Anything, "trainee", "coursework").
		Return(&github.Repository{NodeID: "R_repo", Name: "coursework", Private: true, HasIssues: false, HasProjects: true}, nil)
	client.On("UpdateRepository", mock.Anything, "trainee", "coursework", github.RepositorySettings{
		Name:        "coursework",
		Private:     false,
		HasIssues:   true,
		HasProjects: true,
	}).Return(nil)

	id, err := orch.EnsureRepository(context.Background(), sess, "coursework")

	require.NoError(t, err)
	assert.Equal(t, "R_repo", id)
	client.AssertExpectations(t)
}

func TestEnsureRepository_CreatesWhenMissing(t *testing.T) {
	client := &mockAPI{}
	orch, sess := newTestOrchestrator(client)

	client.On("GetRepository", mock.Anything, "trainee", "coursework").
		Return(nil, notFoundErr("repository trainee/coursework"))
	client.On("CreateRepository", mock.Anything, github.RepositorySettings{
		Name:        "coursework",
		Private:     false,
		HasIssues:   true,
		HasProjects: true,
	}).Return(&github.Repository{NodeID: "R_new", Name: "coursework"}, nil)
	client.On("DeleteLabel", mock.Anything, "trainee", "coursework", mock.Anything).Return(nil)

	id, err := orch.EnsureRepository(context.Background(), sess, "coursework")

	require.NoError(t, err)
	assert.Equal(t, "R_new", id)
	assert.Equal(t, "R_new", sess.RepositoryID)
	client.AssertNumberOfCalls(t, "DeleteLabel", len(defaultLabels))
}

func TestEnsureRepository_LabelDeletionIsBestEffort(t *testing.T) {
	client := &mockAPI{}
	orch, sess := newTestOrchestrator(client)

	client.On("GetRepository", mock.Anything, "trainee", "coursework").
		Return(nil, notFoundErr("repository"))
	client.On("CreateRepository", mock.Anything, mock.Anything).
		Return(&github.Repository{NodeID: "R_new"}, nil)
	client.On("DeleteLabel", mock.Anything, "trainee", "coursework", "bug").
		Return(notFoundErr("label"))
	client.On("DeleteLabel", mock.Anything, "trainee", "coursework", mock.Anything).Return(nil)

	_, err := orch.EnsureRepository(context.Background(), sess, "coursework")

	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "DeleteLabel", len(defaultLabels))
}

func TestEnsureRepository_CreationConflictAdoptsExisting(t *testing.T) {
	client := &mockAPI{}
	orch, sess := newTestOrchestrator(client)

	client.On("GetRepository", mock.Anything, "trainee", "coursework").
		Return(nil, notFoundErr("repository")).Once()
	client.On("CreateRepository", mock.Anything, mock.Anything).
		Return(nil, &github.APIError{Kind: github.KindValidation, Message: "name already exists on this account"})
	client.On("GetRepository", mock.Anything, "trainee", "coursework").
		Return(&github.Repository{NodeID: "R_existing"}, nil).Once()

	id, err := orch.EnsureRepository(context.Background(), sess, "coursework")

	require.NoError(t, err)
	assert.Equal(t, "R_existing", id)
	assert.Equal(t, "R_existing", sess.RepositoryID)
}

func TestEnsureRepository_LookupFailureIsFatal(t *testing.T) {
	client := &mockAPI{}
	orch, sess := newTestOrchestrator(client)

	client.On("GetRepository", mock.Anything, "trainee", "coursework").
		Return(nil, &github.APIError{Kind: github.KindRemote, Message: "boom"})

	_, err := orch.EnsureRepository(context.Background(), sess, "coursework")

	var provErr *ProvisionError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "repository lookup", provErr.Step)
	assert.Empty(t, sess.RepositoryID)
	client.AssertNotCalled(t, "CreateRepository", mock.Anything, mock.Anything)
}

func TestEnsureRepository_UpdateFailureIsFatal(t *testing.T) {
	client := &mockAPI{}
	orch, sess := newTestOrchestrator(client)

	client.On("GetRepository", mock.Anything, "trainee", "coursework").
		Return(&github.Repository{NodeID: "R_repo", Private: true}, nil)
	client.On("UpdateRepository", mock.Anything, "trainee", "coursework", mock.Anything).
		Return(errors.New("update refused"))

	_, err := orch.EnsureRepository(context.Background(), sess, "coursework")

	var provErr *ProvisionError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "repository update", provErr.Step)
}
