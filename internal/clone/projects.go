package clone

import (
	"context"

	"go.uber.org/zap"
)

// EnsureProject adopts the session user's project board matching the
// configured discovery query, links it to the destination repository if it has
// no repository yet, and makes it public. The board's id is recorded on the
// session and returned.
//
// When the board already links a repository, that repository's id overrides
// the one the repository provisioner recorded: an existing project-repo link
// is authoritative over a freshly created repository.
func (o *Orchestrator) EnsureProject(ctx context.Context, sess *Session) (string, error) {
	projects, err := o.client.ListUserProjects(ctx, sess.Login, o.cfg.ProjectQuery)
	if err != nil {
		return "", &ProvisionError{Step: "project lookup", Err: err}
	}
	if len(projects) == 0 || projects[0].ID == "" {
		return "", &ProvisionError{Step: "project lookup", Err: ErrNoProject}
	}

	project := projects[0]

	if len(project.LinkedRepositoryIDs) == 0 {
		if err := o.client.LinkProjectToRepository(ctx, project.ID, sess.RepositoryID); err != nil {
			return "", &ProvisionError{Step: "project link", Err: err}
		}
		o.logger.Info("linked project to repository",
			zap.String("session", sess.ID),
			zap.String("project_id", project.ID),
			zap.String("repository_id", sess.RepositoryID),
		)
	} else {
		sess.RepositoryID = project.LinkedRepositoryIDs[0]
	}

	if !project.Public {
		if err := o.client.MakeProjectPublic(ctx, project.ID); err != nil {
			return "", &ProvisionError{Step: "project visibility", Err: err}
		}
	}

	sess.ProjectID = project.ID
	return project.ID, nil
}
