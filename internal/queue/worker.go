package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/hibiken/asynq"
	"github.com/linkedbud/linkedbud/internal/models"
)

// HandlePublishPostTask publishes a scheduled draft when its time comes.
// The publish orchestrator records the attempt either way, so task errors
// (which would trigger asynq retries) are reserved for drafts that can no
// longer be published at all.
func (j *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	post, err := j.pr.GetByID(ctx, payload.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		return errors.New("scheduled post no longer exists")
	}
	if post.Status != models.PostStatusScheduled {
		log.Printf("Skipping publish task for post %d: status is %s", post.ID, post.Status)
		return nil
	}

	result, err := j.ps.Publish(ctx, payload.UserID, payload.PostID, post.PublishTarget)
	if err != nil {
		// The attempt is already logged in published_posts; the draft keeps
		// its status so nothing mutates it on failure.
		log.Printf("Scheduled publish of post %d failed: %v", payload.PostID, err)
		return nil
	}

	log.Printf("Scheduled post %d published as %s", payload.PostID, result.LinkedinPostID)
	return nil
}
