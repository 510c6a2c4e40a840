package clone

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/traineetrack/traineetrack/internal/github"
)

// MilestoneOutcome records one milestone creation attempt during
// reconciliation.
type MilestoneOutcome struct {
	Title  string
	Number int
	Err    error
}

// ReconcileMilestones fills the session's milestone map. Destination
// milestones are recorded first; source milestones whose titles are not yet
// mapped are then created in the destination repository. Every surviving
// candidate is attempted: a single creation failure is recorded in its outcome
// and does not stop the rest.
//
// Listing failures on either side escalate; the returned outcomes cover only
// the creation attempts.
func (o *Orchestrator) ReconcileMilestones(ctx context.Context, sess *Session, sourceRepo string) ([]MilestoneOutcome, error) {
	destination, err := o.client.ListMilestones(ctx, sess.Login, o.cfg.DefaultRepo, "all")
	if err != nil {
		return nil, err
	}
	for _, m := range destination {
		if m.Title == "" {
			continue
		}
		sess.MapMilestone(m.Title, m.Number)
	}

	source, err := o.client.ListMilestones(ctx, o.cfg.DefaultOwner, sourceRepo, "all")
	if err != nil {
		return nil, err
	}

	var candidates []*github.Milestone
	for _, m := range source {
		if m.Title == "" {
			continue
		}
		if _, mapped := sess.MilestoneNumber(m.Title); mapped {
			continue
		}
		candidates = append(candidates, m)
	}

	outcomes := make([]MilestoneOutcome, 0, len(candidates))
	for _, candidate := range dedupeMilestones(candidates) {
		created, err := o.client.CreateMilestone(ctx, sess.Login, o.cfg.DefaultRepo, github.NewMilestone{
			Title:       candidate.Title,
			Description: candidate.Description,
			State:       "open",
			DueOn:       candidate.DueOn,
		})
		if err != nil {
			o.logger.Warn("could not create milestone",
				zap.String("session", sess.ID),
				zap.String("title", candidate.Title),
				zap.Error(err),
			)
			outcomes = append(outcomes, MilestoneOutcome{Title: candidate.Title, Err: err})
			continue
		}

		sess.MapMilestone(candidate.Title, created.Number)
		outcomes = append(outcomes, MilestoneOutcome{Title: candidate.Title, Number: created.Number})
	}

	return outcomes, nil
}

type milestoneKey struct {
	title       string
	description string
	state       string
	dueOn       string
}

// dedupeMilestones collapses structurally identical milestones, preserving
// first occurrence order. Title-presence filtering already happened, so this
// only guards against literal duplicates in the source listing.
func dedupeMilestones(in []*github.Milestone) []*github.Milestone {
	seen := make(map[milestoneKey]bool, len(in))
	out := make([]*github.Milestone, 0, len(in))
	for _, m := range in {
		key := milestoneKey{
			title:       m.Title,
			description: m.Description,
			state:       m.State,
		}
		if m.DueOn != nil {
			key.dueOn = m.DueOn.UTC().Format(time.RFC3339)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}
