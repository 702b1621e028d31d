package tracker_test

import (
	"fmt"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mlukasik/swift-registry/internal/upload/batch"
	"github.com/mlukasik/swift-registry/internal/upload/tracker"
)

func TestTracker(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Upload Tracker Suite")
}

var _ = Describe("Store", func() {
	var store *tracker.Store

	BeforeEach(func() {
		store = tracker.NewStore(100)
	})

	Describe("lifecycle", func() {
		It("should create a pending task with a message and timestamp", func() {
			task := store.Create("id-1", "codes.csv")
			Expect(task.Status).To(Equal(tracker.StatusPending))
			Expect(task.Filename).To(Equal("codes.csv"))
			Expect(task.Message).To(ContainSubstring("Upload received"))
			Expect(task.CreatedAt).NotTo(BeZero())
		})

		It("should transition pending -> processing -> completed", func() {
			store.Create("id-1", "codes.csv")
			Expect(store.MarkProcessing("id-1", "Processing file...")).To(BeTrue())

			got, ok := store.Get("id-1")
			Expect(ok).To(BeTrue())
			Expect(got.Status).To(Equal(tracker.StatusProcessing))

			store.SetTotal("id-1", 3, "Parsed 3 records. Sending to API...")
			store.Complete("id-1", &batch.Result{
				Total: 3, Successful: 2, Skipped: 1,
				Errors: []batch.SubmissionError{},
			})

			got, _ = store.Get("id-1")
			Expect(got.Status).To(Equal(tracker.StatusCompleted))
			Expect(got.TotalRecords).To(Equal(3))
			Expect(got.Processed).To(Equal(2))
			Expect(got.Skipped).To(Equal(1))
			Expect(got.Message).To(ContainSubstring("2 records created"))
		})

		It("should complete even when the batch had per-record failures", func() {
			store.Create("id-1", "codes.csv")
			store.MarkProcessing("id-1", "Processing file...")
			store.Complete("id-1", &batch.Result{
				Total: 2, Successful: 1, Failed: 1,
				Errors: []batch.SubmissionError{{SwiftCode: "BADDUS33", Error: "store error"}},
			})

			got, _ := store.Get("id-1")
			Expect(got.Status).To(Equal(tracker.StatusCompleted))
			Expect(got.Failed).To(Equal(1))
			Expect(got.ErrorDetails).To(HaveLen(1))
		})

		It("should fail only on pipeline-level errors", func() {
			store.Create("id-1", "codes.csv")
			store.MarkProcessing("id-1", "Processing file...")
			store.Fail("id-1", "file contains duplicate SWIFT codes: AAAAUSAA")

			got, _ := store.Get("id-1")
			Expect(got.Status).To(Equal(tracker.StatusFailed))
			Expect(got.Message).To(ContainSubstring("duplicate"))
		})

		It("should report updates on unknown ids", func() {
			Expect(store.MarkProcessing("ghost", "x")).To(BeFalse())
			Expect(store.Fail("ghost", "x")).To(BeFalse())
		})
	})

	Describe("Get", func() {
		It("should return a snapshot detached from later updates", func() {
			store.Create("id-1", "codes.csv")
			snap, _ := store.Get("id-1")
			store.Fail("id-1", "boom")
			Expect(snap.Status).To(Equal(tracker.StatusPending))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i := 0; i < 5; i++ {
				store.Create(fmt.Sprintf("id-%d", i), fmt.Sprintf("f%d.csv", i))
			}
			store.MarkProcessing("id-1", "x")
			store.Fail("id-2", "x")
		})

		It("should return newest first", func() {
			tasks := store.List("", 10, 0)
			Expect(tasks).To(HaveLen(5))
			for i := 1; i < len(tasks); i++ {
				Expect(tasks[i].CreatedAt.After(tasks[i-1].CreatedAt)).To(BeFalse())
			}
		})

		It("should paginate with limit and skip", func() {
			Expect(store.List("", 2, 0)).To(HaveLen(2))
			Expect(store.List("", 2, 4)).To(HaveLen(1))
			Expect(store.List("", 2, 10)).To(BeEmpty())
		})

		It("should filter by status", func() {
			failed := store.List(tracker.StatusFailed, 10, 0)
			Expect(failed).To(HaveLen(1))
			Expect(failed[0].ID).To(Equal("id-2"))
		})
	})

	Describe("Stats", func() {
		It("should report zero values for an empty store", func() {
			stats := store.Stats()
			Expect(stats.TotalUploads).To(BeZero())
			Expect(stats.MostRecentUpload).To(BeNil())
		})

		It("should aggregate counts per status and processed records", func() {
			store.Create("a", "a.csv")
			store.Create("b", "b.csv")
			store.Create("c", "c.csv")
			store.Complete("a", &batch.Result{Successful: 7})
			store.Fail("b", "boom")

			stats := store.Stats()
			Expect(stats.TotalUploads).To(Equal(3))
			Expect(stats.SuccessfulUploads).To(Equal(1))
			Expect(stats.FailedUploads).To(Equal(1))
			Expect(stats.ProcessingUploads).To(Equal(1))
			Expect(stats.RecordsProcessed).To(Equal(7))
			Expect(stats.MostRecentUpload).NotTo(BeNil())
		})
	})

	Describe("capacity bound", func() {
		It("should evict the oldest terminal task when full", func() {
			small := tracker.NewStore(2)
			small.Create("a", "a.csv")
			small.Complete("a", &batch.Result{})
			small.Create("b", "b.csv")
			small.Create("c", "c.csv")

			_, ok := small.Get("a")
			Expect(ok).To(BeFalse())
			_, ok = small.Get("c")
			Expect(ok).To(BeTrue())
		})

		It("should never evict in-flight tasks", func() {
			small := tracker.NewStore(2)
			small.Create("a", "a.csv")
			small.Create("b", "b.csv")
			small.Create("c", "c.csv")

			for _, id := range []string{"a", "b", "c"} {
				_, ok := small.Get(id)
				Expect(ok).To(BeTrue(), "task %s should survive", id)
			}
		})
	})

	Describe("concurrent access", func() {
		It("should tolerate parallel writers and readers", func() {
			store.Create("id-1", "codes.csv")

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					store.MarkProcessing("id-1", "Processing file...")
				}()
				go func() {
					defer wg.Done()
					_, _ = store.Get("id-1")
					_ = store.List("", 10, 0)
					_ = store.Stats()
				}()
			}
			wg.Wait()

			got, ok := store.Get("id-1")
			Expect(ok).To(BeTrue())
			Expect(got.Status).To(Equal(tracker.StatusProcessing))
		})
	})
})
