package worker

import (
	"context"
	"fmt"
	"log/slog"

	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/queue"
)

type Processor struct {
	followUp LeadFollowUp
}

func NewProcessor(followUp LeadFollowUp) *Processor {
	return &Processor{followUp: followUp}
}

func (p *Processor) Process(ctx context.Context, msg queue.Message) error {
	switch msg.TaskType {
	case queue.TaskTypeLeadCreated:
		if err := p.followUp.NotifyLeadCreated(ctx, msg.LeadID); err != nil {
			return fmt.Errorf("notifying new lead: %w", err)
		}
	case queue.TaskTypeLeadStageChanged:
		to := model.Stage(msg.ToStage)
		if !to.IsValid() {
			// Retrying cannot fix a bad stage; drop it.
			slog.WarnContext(ctx, "ignoring stage change with unknown stage", "to_stage", msg.ToStage)
			return nil
		}
		if err := p.followUp.HandleStageChanged(ctx, msg.LeadID, to); err != nil {
			return fmt.Errorf("handling stage change: %w", err)
		}
	default:
		return fmt.Errorf("unsupported task type %q", msg.TaskType)
	}
	return nil
}

// TaskObserver records task outcomes, e.g. in Prometheus.
type TaskObserver interface {
	TaskProcessed(taskType, outcome string)
}

type instrumented struct {
	next     TaskProcessor
	observer TaskObserver
}

// Instrument reports each processed task as "ok" or "error".
func Instrument(next TaskProcessor, observer TaskObserver) TaskProcessor {
	return &instrumented{next: next, observer: observer}
}

func (p *instrumented) Process(ctx context.Context, msg queue.Message) error {
	err := p.next.Process(ctx, msg)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.observer.TaskProcessed(string(msg.TaskType), outcome)
	return err
}
