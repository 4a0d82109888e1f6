package queue_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"zillowlike.app/api/internal/queue"
)

var _ = Describe("ParseMessage", func() {
	It("parses a lead_created message", func() {
		msg, err := queue.ParseMessage(redis.XMessage{
			ID: "1-0",
			Values: map[string]any{
				"task_type": "lead_created",
				"lead_id":   "1234567890",
				"attempt":   "2",
				"trace_id":  "4bf92f3577b34da6a3ce929d0e0e4736",
			},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.ID).To(Equal("1-0"))
		Expect(msg.TaskType).To(Equal(queue.TaskTypeLeadCreated))
		Expect(msg.LeadID).To(Equal(int64(1234567890)))
		Expect(msg.Attempt).To(Equal(2))
		Expect(msg.TraceID).To(Equal("4bf92f3577b34da6a3ce929d0e0e4736"))
		Expect(msg.ActorID).To(BeNil())
	})

	It("parses a lead_stage_changed message with actor", func() {
		msg, err := queue.ParseMessage(redis.XMessage{
			ID: "2-0",
			Values: map[string]any{
				"task_type":  "lead_stage_changed",
				"lead_id":    "42",
				"actor_id":   "7",
				"from_stage": "VISIT",
				"to_stage":   "WON",
			},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Attempt).To(Equal(1))
		Expect(msg.ActorID).NotTo(BeNil())
		Expect(*msg.ActorID).To(Equal(int64(7)))
		Expect(msg.FromStage).To(Equal("VISIT"))
		Expect(msg.ToStage).To(Equal("WON"))
	})

	DescribeTable("rejects malformed messages",
		func(values map[string]any, errPart string) {
			_, err := queue.ParseMessage(redis.XMessage{ID: "3-0", Values: values})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(errPart))
		},
		Entry("missing task type", map[string]any{"lead_id": "1"}, "missing task_type"),
		Entry("unknown task type", map[string]any{"task_type": "repo_sync", "lead_id": "1"}, "unknown task_type"),
		Entry("missing lead id", map[string]any{"task_type": "lead_created"}, "missing lead_id"),
		Entry("bad lead id", map[string]any{"task_type": "lead_created", "lead_id": "abc"}, "parsing lead_id"),
		Entry("bad attempt", map[string]any{"task_type": "lead_created", "lead_id": "1", "attempt": "x"}, "parsing attempt"),
		Entry("stage change without target", map[string]any{"task_type": "lead_stage_changed", "lead_id": "1"}, "missing to_stage"),
	)
})
