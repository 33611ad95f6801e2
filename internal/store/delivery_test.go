package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"herald.app/relay/internal/store"
)

var _ = Describe("DeliveryStore", func() {
	ctx := context.Background()

	Context("without redis", func() {
		It("claims every delivery", func() {
			deliveries := store.NewStores(nil, nil, 0).Deliveries()
			ok, err := deliveries.Claim(ctx, "abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			ok, err = deliveries.Claim(ctx, "abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})
	})

	Context("with an unreachable redis", func() {
		var client *redis.Client

		BeforeEach(func() {
			client = redis.NewClient(&redis.Options{
				Addr:        "127.0.0.1:1",
				DialTimeout: 100 * time.Millisecond,
				MaxRetries:  -1,
			})
		})

		AfterEach(func() {
			_ = client.Close()
		})

		It("claims deliveries without an id without a round trip", func() {
			ok, err := store.NewRedisDeliveryStore(client, time.Hour).Claim(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("surfaces connection errors", func() {
			_, err := store.NewRedisDeliveryStore(client, time.Hour).Claim(ctx, "abc")
			Expect(err).To(MatchError(ContainSubstring("claiming delivery abc")))
		})
	})
})

var _ = Describe("NewStores", func() {
	It("falls back to memory announcements", func() {
		Expect(store.NewStores(nil, nil, 0).Announcements()).To(BeAssignableToTypeOf(&store.MemoryAnnouncementStore{}))
	})
})
