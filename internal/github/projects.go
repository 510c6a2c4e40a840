package github

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
)

// ListUserProjects returns the user's Projects (V2) boards matching the given
// search query, including the ids of repositories already linked to each.
func (c *Client) ListUserProjects(ctx context.Context, login, query string) ([]*Project, error) {
	var q struct {
		User struct {
			ProjectsV2 struct {
				Nodes []struct {
					ID           string
					Title        string
					Public       bool
					Repositories struct {
						Nodes []struct {
							ID string
						}
					} `graphql:"repositories(first: 10)"`
				}
			} `graphql:"projectsV2(first: 10, query: $query)"`
		} `graphql:"user(login: $login)"`
	}

	vars := map[string]interface{}{
		"login": githubv4.String(login),
		"query": githubv4.String(query),
	}

	if err := c.graphql.Query(ctx, &q, vars); err != nil {
		return nil, wrapGraphQLError(err, fmt.Sprintf("projects for %s", login))
	}

	var projects []*Project
	for _, node := range q.User.ProjectsV2.Nodes {
		project := &Project{
			ID:     node.ID,
			Title:  node.Title,
			Public: node.Public,
		}
		for _, repo := range node.Repositories.Nodes {
			project.LinkedRepositoryIDs = append(project.LinkedRepositoryIDs, repo.ID)
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// LinkProjectToRepository links a Projects (V2) board to a repository.
func (c *Client) LinkProjectToRepository(ctx context.Context, projectID, repositoryID string) error {
	var m struct {
		LinkProjectV2ToRepository struct {
			Repository struct {
				ID string
			}
		} `graphql:"linkProjectV2ToRepository(input: $input)"`
	}

	input := githubv4.LinkProjectV2ToRepositoryInput{
		ProjectID:    githubv4.ID(projectID),
		RepositoryID: githubv4.ID(repositoryID),
	}

	if err := c.graphql.Mutate(ctx, &m, input, nil); err != nil {
		return wrapGraphQLError(err, fmt.Sprintf("link project %s to repository %s", projectID, repositoryID))
	}
	return nil
}

// MakeProjectPublic flips a Projects (V2) board to public visibility.
func (c *Client) MakeProjectPublic(ctx context.Context, projectID string) error {
	var m struct {
		UpdateProjectV2 struct {
			ProjectV2 struct {
				ID string
			}
		} `graphql:"updateProjectV2(input: $input)"`
	}

	input := githubv4.UpdateProjectV2Input{
		ProjectID: githubv4.ID(projectID),
		Public:    githubv4.NewBoolean(true),
	}

	if err := c.graphql.Mutate(ctx, &m, input, nil); err != nil {
		return wrapGraphQLError(err, fmt.Sprintf("make project %s public", projectID))
	}
	return nil
}

// AddItemToProject adds an issue (by content node id) to a Projects (V2) board.
func (c *Client) AddItemToProject(ctx context.Context, projectID, contentID string) error {
	var m struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}

	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: githubv4.ID(projectID),
		ContentID: githubv4.ID(contentID),
	}

	if err := c.graphql.Mutate(ctx, &m, input, nil); err != nil {
		return wrapGraphQLError(err, fmt.Sprintf("add item %s to project %s", contentID, projectID))
	}
	return nil
}
