package results

import (
	"bytes"
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/boleto-client/internal/api"
)

var _ = Describe("View", func() {
	var (
		out   *bytes.Buffer
		store *mockStore
		now   time.Time
		view  *View
		ctx   context.Context
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		store = newMockStore()
		now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
		view = NewViewWithDeps(out, store, &fixedIDGenerator{id: "42"}, &fixedTimeSource{now: now})
		ctx = context.Background()
	})

	Describe("Navigate", func() {
		var err error

		JustBeforeEach(func() {
			err = view.Navigate(ctx, "/result", api.Result(`{"valor":"150.00"}`))
		})

		It("should print the result", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("{\n  \"valor\": \"150.00\"\n}\n"))
		})

		It("should not touch the history", func() {
			Expect(store.entries).To(BeEmpty())
		})

		When("the context is cancelled", func() {
			BeforeEach(func() {
				cancelled, cancel := context.WithCancel(ctx)
				cancel()
				ctx = cancelled
			})

			It("returns the context error without printing", func() {
				Expect(err).To(MatchError(context.Canceled))
				Expect(out.String()).To(BeEmpty())
			})
		})
	})

	Describe("Record", func() {
		var err error

		JustBeforeEach(func() {
			err = view.Record(ctx, "boleto.pdf", "application/pdf", api.Result(`{"valor":"150.00"}`))
		})

		It("should store the upload with the exact result", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(store.entries).To(HaveKey("42"))
			entry := store.entries["42"]
			Expect(entry.Filename).To(Equal("boleto.pdf"))
			Expect(entry.ContentType).To(Equal("application/pdf"))
			Expect(entry.CreatedAt).To(Equal(now))
			Expect(string(entry.Result)).To(Equal(`{"valor":"150.00"}`))
		})

		It("should not print anything", func() {
			Expect(out.String()).To(BeEmpty())
		})

		When("saving fails", func() {
			BeforeEach(func() {
				store.saveErr = errors.New("disk full")
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(ContainSubstring("disk full")))
				Expect(err.Error()).To(ContainSubstring("saving history entry 42"))
			})
		})

		When("there is no store", func() {
			BeforeEach(func() {
				view = NewView(out, nil)
			})

			It("does nothing", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})
})

var _ = Describe("Print", func() {
	It("returns the error for invalid JSON", func() {
		err := Print(&bytes.Buffer{}, api.Result(`{not json`))
		Expect(err).To(MatchError(ContainSubstring("formatting result")))
	})
})
