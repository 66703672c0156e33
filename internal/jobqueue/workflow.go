// Package jobqueue hands accepted orders off to the point-of-sale system
// asynchronously, outside the webhook request/response cycle. Supplemented
// per SPEC_FULL.md §4 item 4: spec.md explicitly scopes the POS submission
// worker itself out, but the webhook receiver that triggers it is in
// scope, so the trigger side is implemented here, grounded on
// goadesign-goa-ai's runtime/agent/engine/temporal usage of the plain
// go.temporal.io/sdk client/worker/workflow API.
package jobqueue

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// PosSubmissionInput is the payload a webhook hands to the workflow.
type PosSubmissionInput struct {
	TenantID string
	OrderID  string
	Total    float64
}

// PosSubmissionWorkflow submits one order to the tenant's point-of-sale
// integration, retrying transient failures with backoff before giving up.
// The activity implementation (the actual POS API call) is intentionally
// not part of this gateway — spec.md's Non-goals exclude the POS
// integration itself; this workflow only defines the retry/orchestration
// shape a worker process would register SubmitToPos under.
func PosSubmissionWorkflow(ctx workflow.Context, input PosSubmissionInput) error {
	opts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, opts)

	var result SubmitToPosResult
	if err := workflow.ExecuteActivity(ctx, SubmitToPosActivityName, input).Get(ctx, &result); err != nil {
		return fmt.Errorf("submit order %s to pos: %w", input.OrderID, err)
	}
	return nil
}

// SubmitToPosResult is the activity's return value; defined here so the
// workflow and whatever process registers the activity share a contract
// without either depending on the other's package.
type SubmitToPosResult struct {
	PosReferenceID string
}

// SubmitToPosActivityName is the activity's registered name. Kept as a
// string constant (rather than a function reference) since the activity
// implementation lives in the POS-integration worker process, not here.
const SubmitToPosActivityName = "SubmitToPos"
