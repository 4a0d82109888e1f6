package cache_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"zillowlike.app/api/internal/cache"
)

var _ = Describe("Memory", func() {
	var (
		ctx context.Context
		c   *cache.Memory
		now time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		c = cache.NewMemory(3)
		c.SetClock(func() time.Time { return now })
	})

	It("returns stored values until they expire", func() {
		Expect(c.Set(ctx, "a", []byte("1"), time.Minute)).To(Succeed())

		val, ok, err := c.Get(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(string(val)).To(Equal("1"))

		now = now.Add(time.Minute)
		_, ok, err = c.Get(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
		Expect(c.Len()).To(Equal(0))
	})

	It("reports a miss for unknown keys", func() {
		_, ok, err := c.Get(ctx, "missing")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("evicts the oldest inserted entry when full, even if it was read recently", func() {
		Expect(c.Set(ctx, "a", []byte("1"), time.Hour)).To(Succeed())
		Expect(c.Set(ctx, "b", []byte("2"), time.Hour)).To(Succeed())
		Expect(c.Set(ctx, "c", []byte("3"), time.Hour)).To(Succeed())

		_, ok, _ := c.Get(ctx, "a")
		Expect(ok).To(BeTrue())

		Expect(c.Set(ctx, "d", []byte("4"), time.Hour)).To(Succeed())

		_, ok, _ = c.Get(ctx, "a")
		Expect(ok).To(BeFalse())
		for _, k := range []string{"b", "c", "d"} {
			_, ok, _ = c.Get(ctx, k)
			Expect(ok).To(BeTrue(), k)
		}
		Expect(c.Len()).To(Equal(3))
	})

	It("treats an overwrite as a fresh insert", func() {
		Expect(c.Set(ctx, "a", []byte("1"), time.Hour)).To(Succeed())
		Expect(c.Set(ctx, "b", []byte("2"), time.Hour)).To(Succeed())
		Expect(c.Set(ctx, "c", []byte("3"), time.Hour)).To(Succeed())
		Expect(c.Set(ctx, "a", []byte("1b"), time.Hour)).To(Succeed())

		Expect(c.Set(ctx, "d", []byte("4"), time.Hour)).To(Succeed())

		_, ok, _ := c.Get(ctx, "b")
		Expect(ok).To(BeFalse())
		val, ok, _ := c.Get(ctx, "a")
		Expect(ok).To(BeTrue())
		Expect(string(val)).To(Equal("1b"))
	})

	It("deletes entries", func() {
		Expect(c.Set(ctx, "a", []byte("1"), time.Hour)).To(Succeed())
		Expect(c.Delete(ctx, "a")).To(Succeed())
		_, ok, _ := c.Get(ctx, "a")
		Expect(ok).To(BeFalse())
		Expect(c.Delete(ctx, "a")).To(Succeed())
	})
})
