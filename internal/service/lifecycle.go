package service

import (
	"errors"
	"fmt"

	"github.com/aura-archive-api/internal/models"
)

// Event is an action that can move a draft between statuses
type Event string

const (
	EventPipelineSucceeded Event = "pipeline_succeeded"
	EventPipelineFailed    Event = "pipeline_failed"
	EventEditorSave        Event = "editor_save"
	EventPublish           Event = "publish"
)

// ErrInvalidTransition is returned for any (status, event) pair outside
// the lifecycle state machine.
var ErrInvalidTransition = errors.New("invalid draft status transition")

// Transition is the draft lifecycle state machine: a pure mapping from
// (current status, event) to the next status. PROCESSING moves to
// REVIEW_PENDING or FAILED on the pipeline outcome; REVIEW_PENDING allows
// editor saves (status unchanged) and publishing; PUBLISHED is terminal.
func Transition(current models.DraftStatus, event Event) (models.DraftStatus, error) {
	switch event {
	case EventPipelineSucceeded:
		if current == models.StatusProcessing {
			return models.StatusReviewPending, nil
		}
	case EventPipelineFailed:
		if current == models.StatusProcessing {
			return models.StatusFailed, nil
		}
	case EventEditorSave:
		if current == models.StatusReviewPending {
			return models.StatusReviewPending, nil
		}
	case EventPublish:
		if current == models.StatusReviewPending {
			return models.StatusPublished, nil
		}
	}
	return current, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, current)
}
