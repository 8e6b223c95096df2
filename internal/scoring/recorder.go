package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/logging"
)

// RelationshipSource is the slice of storage the recorder needs to read and
// write relationship scores.
type RelationshipSource interface {
	Relationship(ctx context.Context, id string) (core.Relationship, error)
	SetVitality(ctx context.Context, id string, score float64, lastInteractionAt *time.Time) error
}

// ContributionLedger remembers, per (interaction, participant), the score
// the participant had at logging time. That value selects the saturation
// band, so reverting a contribution months later still backs out exactly
// what was added.
type ContributionLedger interface {
	RecordContribution(ctx context.Context, interactionID, relationshipID string, scoreAtLogging float64) error
	ScoreAtLogging(ctx context.Context, interactionID, relationshipID string) (float64, error)
	RemoveContribution(ctx context.Context, interactionID, relationshipID string) error
	// LatestCompletion returns the most recent completed interaction time
	// for a relationship, excluding the given interaction ID (pass "" to
	// exclude nothing). Nil when no completed interactions remain.
	LatestCompletion(ctx context.Context, relationshipID, excludeInteractionID string) (*time.Time, error)
}

// Recorder applies and reverts interaction contributions across all affected
// relationships. Multi-participant interactions fan out to one update per
// participant; a failure for one participant never blocks the others.
type Recorder struct {
	rels   RelationshipSource
	ledger ContributionLedger
	log    *logging.Logger
}

// NewRecorder creates a recorder over the given stores.
func NewRecorder(rels RelationshipSource, ledger ContributionLedger) *Recorder {
	return &Recorder{
		rels:   rels,
		ledger: ledger,
		log:    logging.Component("scoring"),
	}
}

// Apply credits an interaction to every participant. Planned interactions
// record a zero contribution so a later "mark completed" edit follows the
// same revert-then-apply path as any other edit.
func (r *Recorder) Apply(ctx context.Context, in core.Interaction) error {
	if len(in.Participants) == 0 {
		return core.ErrNoParticipants
	}

	var errs []error
	for _, relID := range in.Participants {
		if err := r.applyOne(ctx, in, relID); err != nil {
			r.log.Error("apply interaction %s to %s: %v", in.ID, relID, err)
			errs = append(errs, fmt.Errorf("relationship %s: %w", relID, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Recorder) applyOne(ctx context.Context, in core.Interaction, relID string) error {
	rel, err := r.rels.Relationship(ctx, relID)
	if err != nil {
		return err
	}

	stored := Clamp(rel.VitalityScore)
	if err := r.ledger.RecordContribution(ctx, in.ID, relID, stored); err != nil {
		return err
	}

	if !in.Completed() {
		return nil
	}

	newScore, _ := Apply(rel, in, stored)

	last := rel.LastInteractionAt
	if last == nil || in.OccurredAt.After(*last) {
		t := in.OccurredAt
		last = &t
	}
	return r.rels.SetVitality(ctx, relID, newScore, last)
}

// Revert backs out an interaction's contribution from every participant and
// drops the ledger rows. Used on deletion and as the first half of an edit.
func (r *Recorder) Revert(ctx context.Context, in core.Interaction) error {
	var errs []error
	for _, relID := range in.Participants {
		if err := r.revertOne(ctx, in, relID); err != nil {
			r.log.Error("revert interaction %s from %s: %v", in.ID, relID, err)
			errs = append(errs, fmt.Errorf("relationship %s: %w", relID, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Recorder) revertOne(ctx context.Context, in core.Interaction, relID string) error {
	rel, err := r.rels.Relationship(ctx, relID)
	if err != nil {
		return err
	}

	atLogging, err := r.ledger.ScoreAtLogging(ctx, in.ID, relID)
	if err != nil {
		return err
	}

	newScore := Revert(rel, in, atLogging, rel.VitalityScore)

	if err := r.ledger.RemoveContribution(ctx, in.ID, relID); err != nil {
		return err
	}

	// The reverted interaction may have been the latest contact.
	last, err := r.ledger.LatestCompletion(ctx, relID, in.ID)
	if err != nil {
		return err
	}
	return r.rels.SetVitality(ctx, relID, newScore, last)
}

// Reapply handles an edit: the old contribution is backed out with its
// original parameters, then the edited interaction is applied fresh.
func (r *Recorder) Reapply(ctx context.Context, old, edited core.Interaction) error {
	if err := r.Revert(ctx, old); err != nil {
		return err
	}
	return r.Apply(ctx, edited)
}

// SyncParticipants reconciles a participant-list change. Removed
// relationships get the contribution reverted, added ones get it applied;
// unchanged participants are left alone. Each relationship is updated
// independently so one failure cannot corrupt the rest.
func (r *Recorder) SyncParticipants(ctx context.Context, in core.Interaction, newParticipants []string) error {
	oldSet := make(map[string]bool, len(in.Participants))
	for _, id := range in.Participants {
		oldSet[id] = true
	}
	newSet := make(map[string]bool, len(newParticipants))
	for _, id := range newParticipants {
		newSet[id] = true
	}

	var errs []error
	for _, relID := range in.Participants {
		if newSet[relID] {
			continue
		}
		if err := r.revertOne(ctx, in, relID); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", relID, err))
		}
	}
	for _, relID := range newParticipants {
		if oldSet[relID] {
			continue
		}
		if err := r.applyOne(ctx, in, relID); err != nil {
			errs = append(errs, fmt.Errorf("add %s: %w", relID, err))
		}
	}
	return errors.Join(errs...)
}
