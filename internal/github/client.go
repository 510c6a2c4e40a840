package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Client talks to GitHub over both the REST API (issues, milestones,
// repositories, labels) and the GraphQL API (Projects V2).
type Client struct {
	rest    *github.Client
	graphql *githubv4.Client
	logger  *zap.Logger
}

// NewClient creates a client authenticated with the given token. The token may
// be a user OAuth token or an installation token.
func NewClient(token string, logger *zap.Logger) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		rest:    github.NewClient(tc),
		graphql: githubv4.NewClient(tc),
		logger:  logger,
	}
}

// GetAuthenticatedUser resolves the login and node id of the token's user.
func (c *Client) GetAuthenticatedUser(ctx context.Context) (*User, error) {
	user, _, err := c.rest.Users.Get(ctx, "")
	if err != nil {
		return nil, wrapAPIError(err, "authenticated user")
	}
	return &User{
		Login:  user.GetLogin(),
		NodeID: user.GetNodeID(),
	}, nil
}

// ListIssues returns all issues of a repository, paging through every result.
func (c *Client) ListIssues(ctx context.Context, owner, repo string) ([]*Issue, error) {
	opts := &github.IssueListByRepoOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []*Issue
	for {
		issues, resp, err := c.rest.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, wrapAPIError(err, fmt.Sprintf("issues for %s/%s", owner, repo))
		}
		for _, issue := range issues {
			all = append(all, convertIssue(issue))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// GetIssue fetches a single issue by number.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	issue, _, err := c.rest.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("issue %s/%s#%d", owner, repo, number))
	}
	return convertIssue(issue), nil
}

// CreateIssue creates an issue in the given repository.
func (c *Client) CreateIssue(ctx context.Context, owner, repo string, issue NewIssue) (*Issue, error) {
	req := &github.IssueRequest{
		Title:     github.String(issue.Title),
		Body:      github.String(issue.Body),
		Milestone: issue.Milestone,
	}
	if len(issue.Assignees) > 0 {
		req.Assignees = &issue.Assignees
	}
	if len(issue.Labels) > 0 {
		req.Labels = &issue.Labels
	}

	created, _, err := c.rest.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("issue %q in %s/%s", issue.Title, owner, repo))
	}
	return convertIssue(created), nil
}

// ListMilestones returns all milestones of a repository in the given state,
// paging through every result.
func (c *Client) ListMilestones(ctx context.Context, owner, repo, state string) ([]*Milestone, error) {
	opts := &github.MilestoneListOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []*Milestone
	for {
		milestones, resp, err := c.rest.Issues.ListMilestones(ctx, owner, repo, opts)
		if err != nil {
			return nil, wrapAPIError(err, fmt.Sprintf("milestones for %s/%s", owner, repo))
		}
		for _, m := range milestones {
			all = append(all, convertMilestone(m))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateMilestone creates a milestone and returns it with its assigned number.
func (c *Client) CreateMilestone(ctx context.Context, owner, repo string, milestone NewMilestone) (*Milestone, error) {
	req := &github.Milestone{
		Title: github.String(milestone.Title),
		State: github.String(milestone.State),
	}
	if milestone.Description != "" {
		req.Description = github.String(milestone.Description)
	}
	if milestone.DueOn != nil {
		req.DueOn = &github.Timestamp{Time: *milestone.DueOn}
	}

	created, _, err := c.rest.Issues.CreateMilestone(ctx, owner, repo, req)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("milestone %q in %s/%s", milestone.Title, owner, repo))
	}
	return convertMilestone(created), nil
}

// GetRepository fetches a repository's settings.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	repository, _, err := c.rest.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("repository %s/%s", owner, repo))
	}
	return convertRepository(repository), nil
}

// CreateRepository creates a repository for the authenticated user.
func (c *Client) CreateRepository(ctx context.Context, settings RepositorySettings) (*Repository, error) {
	repo := &github.Repository{
		Name:        github.String(settings.Name),
		Private:     github.Bool(settings.Private),
		HasIssues:   github.Bool(settings.HasIssues),
		HasProjects: github.Bool(settings.HasProjects),
	}

	created, _, err := c.rest.Repositories.Create(ctx, "", repo)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("repository %s", settings.Name))
	}
	return convertRepository(created), nil
}

// UpdateRepository updates an existing repository's settings in place. Only
// the settings carried by RepositorySettings are touched.
func (c *Client) UpdateRepository(ctx context.Context, owner, repo string, settings RepositorySettings) error {
	update := &github.Repository{
		Name:        github.String(settings.Name),
		Private:     github.Bool(settings.Private),
		HasIssues:   github.Bool(settings.HasIssues),
		HasProjects: github.Bool(settings.HasProjects),
	}

	_, _, err := c.rest.Repositories.Edit(ctx, owner, repo, update)
	if err != nil {
		return wrapAPIError(err, fmt.Sprintf("repository %s/%s", owner, repo))
	}
	return nil
}

// DeleteLabel removes a label from a repository.
func (c *Client) DeleteLabel(ctx context.Context, owner, repo, name string) error {
	_, err := c.rest.Issues.DeleteLabel(ctx, owner, repo, name)
	if err != nil {
		return wrapAPIError(err, fmt.Sprintf("label %q in %s/%s", name, owner, repo))
	}
	return nil
}

func convertIssue(issue *github.Issue) *Issue {
	converted := &Issue{
		Number: issue.GetNumber(),
		NodeID: issue.GetNodeID(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
	}
	for _, label := range issue.Labels {
		converted.Labels = append(converted.Labels, label.GetName())
	}
	if issue.Milestone != nil {
		converted.Milestone = &MilestoneRef{Title: issue.Milestone.GetTitle()}
	}
	return converted
}

func convertMilestone(m *github.Milestone) *Milestone {
	converted := &Milestone{
		Number:      m.GetNumber(),
		Title:       m.GetTitle(),
		Description: m.GetDescription(),
		State:       m.GetState(),
	}
	if m.DueOn != nil {
		due := m.DueOn.Time
		converted.DueOn = &due
	}
	return converted
}

func convertRepository(repo *github.Repository) *Repository {
	return &Repository{
		NodeID:      repo.GetNodeID(),
		Name:        repo.GetName(),
		Private:     repo.GetPrivate(),
		HasIssues:   repo.GetHasIssues(),
		HasProjects: repo.GetHasProjects(),
	}
}
