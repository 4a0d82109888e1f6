package worker_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/queue"
	"zillowlike.app/api/internal/worker"
)

var _ = Describe("Worker", func() {
	var (
		consumer  *mockConsumer
		processor *mockProcessor
		w         *worker.Worker
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &mockConsumer{}
		processor = &mockProcessor{}
		w = worker.New(consumer, processor, worker.Config{MaxAttempts: 3})
	})

	Describe("ProcessMessage", func() {
		It("acks the message after successful processing", func() {
			var seen queue.Message
			processor.processFn = func(_ context.Context, msg queue.Message) error {
				seen = msg
				return nil
			}

			msg := queue.Message{ID: "1-0", TaskType: queue.TaskTypeLeadCreated, LeadID: 10, Attempt: 1}
			Expect(w.ProcessMessage(ctx, msg)).To(Succeed())
			Expect(seen.LeadID).To(Equal(int64(10)))
			Expect(consumer.acked).To(ConsistOf("1-0"))
		})

		It("does not ack when processing fails", func() {
			processor.processFn = func(context.Context, queue.Message) error {
				return errors.New("db down")
			}

			err := w.ProcessMessage(ctx, queue.Message{ID: "1-0", TaskType: queue.TaskTypeLeadCreated})
			Expect(err).To(MatchError("db down"))
			Expect(consumer.acked).To(BeEmpty())
		})
	})

	Describe("ProcessReclaimed", func() {
		It("requeues failures below the attempt limit", func() {
			processor.processFn = func(context.Context, queue.Message) error { return errors.New("boom") }

			err := w.ProcessReclaimed(ctx, queue.Message{ID: "2-0", Attempt: 1})
			Expect(err).To(HaveOccurred())
			Expect(consumer.requeued).To(ConsistOf("2-0"))
			Expect(consumer.dlq).To(BeEmpty())
		})

		It("sends to the DLQ at the attempt limit", func() {
			processor.processFn = func(context.Context, queue.Message) error { return errors.New("boom") }

			Expect(w.ProcessReclaimed(ctx, queue.Message{ID: "3-0", Attempt: 3})).NotTo(Succeed())
			Expect(consumer.dlq).To(ConsistOf("3-0"))
			Expect(consumer.requeued).To(BeEmpty())
		})

		It("turns a panic into a retry", func() {
			processor.processFn = func(context.Context, queue.Message) error { panic("nil map") }

			err := w.ProcessReclaimed(ctx, queue.Message{ID: "4-0", Attempt: 1})
			Expect(err).To(MatchError(ContainSubstring("panic: nil map")))
			Expect(consumer.requeued).To(ConsistOf("4-0"))
		})
	})

	Describe("Run", func() {
		It("processes batches until the context is cancelled", func() {
			consumer.batches = [][]queue.Message{
				{{ID: "a", Attempt: 1}, {ID: "b", Attempt: 1}},
				{{ID: "c", Attempt: 3}},
			}
			processor.processFn = func(_ context.Context, msg queue.Message) error {
				if msg.ID == "c" {
					return errors.New("still failing")
				}
				return nil
			}

			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() { done <- w.Run(runCtx) }()

			Eventually(func() int {
				consumer.mu.Lock()
				defer consumer.mu.Unlock()
				return len(consumer.acked) + len(consumer.dlq)
			}).WithTimeout(2 * time.Second).Should(Equal(3))

			cancel()
			Eventually(done).WithTimeout(3 * time.Second).Should(Receive(MatchError(context.Canceled)))

			Expect(consumer.acked).To(ConsistOf("a", "b"))
			Expect(consumer.dlq).To(ConsistOf("c"))
		})
	})
})

var _ = Describe("Processor", func() {
	var (
		followUp *mockFollowUp
		p        *worker.Processor
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		followUp = &mockFollowUp{}
		p = worker.NewProcessor(followUp)
	})

	It("notifies on lead_created", func() {
		Expect(p.Process(ctx, queue.Message{TaskType: queue.TaskTypeLeadCreated, LeadID: 5})).To(Succeed())
		Expect(followUp.created).To(ConsistOf(int64(5)))
	})

	It("forwards stage changes", func() {
		msg := queue.Message{TaskType: queue.TaskTypeLeadStageChanged, LeadID: 6, ToStage: "WON"}
		Expect(p.Process(ctx, msg)).To(Succeed())
		Expect(followUp.stageChanges).To(HaveKeyWithValue(int64(6), model.StageWon))
	})

	It("drops stage changes to unknown stages without retrying", func() {
		msg := queue.Message{TaskType: queue.TaskTypeLeadStageChanged, LeadID: 6, ToStage: "ARCHIVED"}
		Expect(p.Process(ctx, msg)).To(Succeed())
		Expect(followUp.stageChanges).To(BeEmpty())
	})

	It("wraps follow-up errors", func() {
		followUp.err = errors.New("pusher down")
		err := p.Process(ctx, queue.Message{TaskType: queue.TaskTypeLeadCreated, LeadID: 5})
		Expect(err).To(MatchError(ContainSubstring("notifying new lead: pusher down")))
	})

	It("rejects unknown task types", func() {
		Expect(p.Process(ctx, queue.Message{TaskType: "repo_sync"})).To(MatchError(ContainSubstring("unsupported task type")))
	})
})

var _ = Describe("Instrument", func() {
	It("records ok and error outcomes by task type", func() {
		observer := &recordingObserver{}
		fail := false
		p := worker.Instrument(&mockProcessor{processFn: func(context.Context, queue.Message) error {
			if fail {
				return errors.New("boom")
			}
			return nil
		}}, observer)

		Expect(p.Process(context.Background(), queue.Message{TaskType: queue.TaskTypeLeadCreated})).To(Succeed())
		fail = true
		Expect(p.Process(context.Background(), queue.Message{TaskType: queue.TaskTypeLeadStageChanged})).To(HaveOccurred())

		Expect(observer.outcomes).To(Equal([]string{"lead_created:ok", "lead_stage_changed:error"}))
	})
})
