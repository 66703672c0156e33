package jobqueue

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
)

// Client starts PosSubmissionWorkflow runs against a Temporal cluster.
type Client struct {
	temporal  client.Client
	taskQueue string
}

// NewClient dials the Temporal frontend at hostPort.
func NewClient(hostPort, taskQueue string) (*Client, error) {
	c, err := client.Dial(client.Options{HostPort: hostPort})
	if err != nil {
		return nil, fmt.Errorf("dial temporal: %w", err)
	}
	return &Client{temporal: c, taskQueue: taskQueue}, nil
}

// Close releases the underlying Temporal connection.
func (c *Client) Close() {
	c.temporal.Close()
}

// SubmitOrder starts one PosSubmissionWorkflow run, keyed by order ID so a
// duplicate webhook delivery that slips past the dedup guard still only
// produces one workflow execution (Temporal treats a reused workflow ID as
// a no-op while the prior run is active).
func (c *Client) SubmitOrder(ctx context.Context, input PosSubmissionInput) error {
	opts := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("pos-submission-%s", input.OrderID),
		TaskQueue: c.taskQueue,
	}
	_, err := c.temporal.ExecuteWorkflow(ctx, opts, PosSubmissionWorkflow, input)
	if err != nil {
		return fmt.Errorf("start pos submission workflow: %w", err)
	}
	return nil
}
