package clone

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/traineetrack/traineetrack/internal/github"
)

// Config carries the orchestrator's fixed inputs: where curriculum issues come
// from and where clones land.
type Config struct {
	// DefaultOwner is the organization owning the source repositories.
	DefaultOwner string

	// DefaultRepo is the name of the per-user destination repository.
	DefaultRepo string

	// ProjectQuery is the search string used to discover the user's
	// coursework project board.
	ProjectQuery string

	// Concurrency bounds parallel issue creation. Values below 2 keep the
	// original sequential behavior.
	Concurrency int
}

// Orchestrator drives the clone workflow for one session: provisioning the
// destination repository and project board, reconciling milestones, and
// copying issues across with per-item accounting.
type Orchestrator struct {
	client github.API
	cfg    Config
	logger *zap.Logger
}

// New creates an orchestrator around a pre-authenticated client.
func New(client github.API, cfg Config, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// InitialSetup provisions the destination repository and adopts the project
// board. Both steps are idempotent, so repeated calls within a session are
// cheap no-ops once the remote state satisfies the invariants.
func (o *Orchestrator) InitialSetup(ctx context.Context, sess *Session) error {
	if _, err := o.EnsureRepository(ctx, sess, o.cfg.DefaultRepo); err != nil {
		return err
	}
	if _, err := o.EnsureProject(ctx, sess); err != nil {
		return err
	}
	return nil
}

// CloneAll copies every issue from the source repository into the session
// user's destination repository. Issues with an empty body are skipped, as are
// issues whose title already exists at the destination unless allowDuplicates
// is set. Individual creation failures are counted, never escalated.
//
// All listing happens before any issue is created, so the duplicate-title set
// reflects a consistent snapshot. When the context is canceled mid-batch no
// new creations are issued and the issues never submitted are counted as
// skipped; the partial Result is returned together with the context's error.
func (o *Orchestrator) CloneAll(ctx context.Context, sess *Session, sourceRepo string, allowDuplicates bool) (*Result, error) {
	issues, err := o.client.ListIssues(ctx, o.cfg.DefaultOwner, sourceRepo)
	if err != nil {
		return nil, &CloneError{Phase: "source issue listing", Err: err}
	}
	if len(issues) == 0 {
		return nil, &CloneError{Phase: "source issue listing", Err: ErrNoIssues}
	}

	if err := o.InitialSetup(ctx, sess); err != nil {
		return nil, &CloneError{Phase: "initial setup", Err: err}
	}
	if _, err := o.ReconcileMilestones(ctx, sess, sourceRepo); err != nil {
		return nil, &CloneError{Phase: "milestone reconciliation", Err: err}
	}

	existing := make(map[string]bool)
	if !allowDuplicates {
		destIssues, err := o.client.ListIssues(ctx, sess.Login, o.cfg.DefaultRepo)
		if err != nil {
			return nil, &CloneError{Phase: "destination issue listing", Err: err}
		}
		for _, issue := range destIssues {
			if issue.Title != "" {
				existing[issue.Title] = true
			}
		}
	}

	res := NewResult(len(issues))

	limit := o.cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for i, issue := range issues {
		if ctx.Err() != nil {
			// Unsubmitted issues land in the skipped bucket so the
			// counters still sum to the total.
			for range issues[i:] {
				res.MarkSkipped()
			}
			break
		}
		if issue.Body == "" || (!allowDuplicates && existing[issue.Title]) {
			res.MarkSkipped()
			continue
		}

		issue := issue
		g.Go(func() error {
			o.createIssue(ctx, sess, issue, res)
			return nil
		})
	}

	// In-flight creations run to completion even after cancellation.
	_ = g.Wait()

	return res, ctx.Err()
}

// CloneOne copies a single issue by number. The empty-body and duplicate-title
// filters of CloneAll deliberately do not apply here: a single clone is an
// explicit request, and the behavior matches the batch path's historical
// asymmetry.
func (o *Orchestrator) CloneOne(ctx context.Context, sess *Session, sourceRepo string, number int) (*Result, error) {
	issue, err := o.client.GetIssue(ctx, o.cfg.DefaultOwner, sourceRepo, number)
	if err != nil {
		return nil, &CloneError{Phase: "source issue fetch", Err: err}
	}

	if err := o.InitialSetup(ctx, sess); err != nil {
		return nil, &CloneError{Phase: "initial setup", Err: err}
	}
	if _, err := o.ReconcileMilestones(ctx, sess, sourceRepo); err != nil {
		return nil, &CloneError{Phase: "milestone reconciliation", Err: err}
	}

	res := NewResult(1)
	o.createIssue(ctx, sess, issue, res)
	return res, nil
}

// createIssue copies one issue into the destination repository, assigning it
// to the session user and mapping its milestone through the session's map.
// Failures are absorbed into the result; a failed project-board link is logged
// only, since the issue itself was created.
func (o *Orchestrator) createIssue(ctx context.Context, sess *Session, issue *github.Issue, res *Result) {
	req := github.NewIssue{
		Title:     issue.Title,
		Body:      issue.Body,
		Labels:    issue.Labels,
		Assignees: []string{sess.Login},
	}
	if issue.Milestone != nil {
		if number, ok := sess.MilestoneNumber(issue.Milestone.Title); ok {
			req.Milestone = &number
		}
	}

	created, err := o.client.CreateIssue(ctx, sess.Login, o.cfg.DefaultRepo, req)
	if err != nil {
		res.MarkFailed()
		o.logger.Error("could not create issue",
			zap.String("session", sess.ID),
			zap.String("title", issue.Title),
			zap.Error(err),
		)
		return
	}

	if sess.ProjectID != "" {
		if err := o.client.AddItemToProject(ctx, sess.ProjectID, created.NodeID); err != nil {
			o.logger.Warn("could not add issue to project board",
				zap.String("session", sess.ID),
				zap.String("title", issue.Title),
				zap.String("project_id", sess.ProjectID),
				zap.Error(err),
			)
		}
	}
}
