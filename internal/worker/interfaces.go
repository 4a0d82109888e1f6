package worker

import (
	"context"

	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// TaskProcessor handles one decoded lead task.
type TaskProcessor interface {
	Process(ctx context.Context, msg queue.Message) error
}

// LeadFollowUp is the slice of the assistant service the worker drives.
type LeadFollowUp interface {
	NotifyLeadCreated(ctx context.Context, leadID int64) error
	HandleStageChanged(ctx context.Context, leadID int64, to model.Stage) error
}
