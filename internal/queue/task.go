package queue

type TaskType string

const (
	TaskTypeLeadCreated      TaskType = "lead_created"
	TaskTypeLeadStageChanged TaskType = "lead_stage_changed"
)

// Task is what services enqueue; the worker receives it back as a Message.
type Task struct {
	TaskType  TaskType
	LeadID    int64
	ActorID   *int64
	FromStage string
	ToStage   string
	TraceID   string
	Attempt   int
}
