package clone

import (
	"context"

	"go.uber.org/zap"

	"github.com/traineetrack/traineetrack/internal/github"
)

// defaultLabels are the labels GitHub seeds into every new repository. They
// are removed from freshly created destination repositories so that only
// labels copied from the source curriculum remain.
var defaultLabels = []string{
	"bug",
	"documentation",
	"duplicate",
	"enhancement",
	"good first issue",
	"help wanted",
	"invalid",
	"question",
	"wontfix",
}

// EnsureRepository makes sure a repository named name exists under the
// session's user with issues enabled, projects enabled, and public visibility.
// An existing repository is updated in place if its settings drift; a missing
// one is created and stripped of GitHub's default labels. The repository's
// node id is recorded on the session and returned.
func (o *Orchestrator) EnsureRepository(ctx context.Context, sess *Session, name string) (string, error) {
	repo, err := o.client.GetRepository(ctx, sess.Login, name)
	if err != nil {
		if !github.IsNotFound(err) {
			return "", &ProvisionError{Step: "repository lookup", Err: err}
		}
		return o.createRepository(ctx, sess, name)
	}

	if !repo.HasIssues || repo.Private || !repo.HasProjects {
		settings := github.RepositorySettings{
			Name:        name,
			Private:     false,
			HasIssues:   true,
			HasProjects: true,
		}
		if err := o.client.UpdateRepository(ctx, sess.Login, name, settings); err != nil {
			return "", &ProvisionError{Step: "repository update", Err: err}
		}
		o.logger.Info("updated repository settings",
			zap.String("session", sess.ID),
			zap.String("repo", name),
		)
	}

	sess.RepositoryID = repo.NodeID
	return repo.NodeID, nil
}

func (o *Orchestrator) createRepository(ctx context.Context, sess *Session, name string) (string, error) {
	settings := github.RepositorySettings{
		Name:        name,
		Private:     false,
		HasIssues:   true,
		HasProjects: true,
	}

	repo, err := o.client.CreateRepository(ctx, settings)
	if err != nil {
		if !github.IsConflict(err) {
			return "", &ProvisionError{Step: "repository creation", Err: err}
		}
		// Raced with another request creating the same repository: adopt it.
		existing, getErr := o.client.GetRepository(ctx, sess.Login, name)
		if getErr != nil {
			return "", &ProvisionError{Step: "repository creation", Err: getErr}
		}
		sess.RepositoryID = existing.NodeID
		return existing.NodeID, nil
	}

	o.logger.Info("created repository",
		zap.String("session", sess.ID),
		zap.String("repo", name),
	)

	// Best effort: a label that cannot be removed is logged and left behind.
	for _, label := range defaultLabels {
		if err := o.client.DeleteLabel(ctx, sess.Login, name, label); err != nil {
			o.logger.Warn("could not delete default label",
				zap.String("session", sess.ID),
				zap.String("repo", name),
				zap.String("label", label),
				zap.Error(err),
			)
		}
	}

	sess.RepositoryID = repo.NodeID
	return repo.NodeID, nil
}
