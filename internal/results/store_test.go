package results

import (
	"encoding/json"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltStore", func() {
	var (
		tmpDir string
		store  *BoltStore
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		store, err = NewBoltStore(filepath.Join(tmpDir, "history.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("SaveEntry and GetEntry", func() {
		var entry *HistoryEntry

		BeforeEach(func() {
			entry = &HistoryEntry{
				ID:          "1",
				Filename:    "boleto-março.pdf",
				ContentType: "application/pdf",
				Result:      json.RawMessage(`{"valor":"150.00"}`),
				CreatedAt:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			}
			Expect(store.SaveEntry(entry)).To(Succeed())
		})

		It("should return the saved entry", func() {
			got, err := store.GetEntry("1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Filename).To(Equal("boleto-março.pdf"))
			Expect(got.ContentType).To(Equal("application/pdf"))
			Expect(got.CreatedAt.Equal(entry.CreatedAt)).To(BeTrue())
		})

		It("should keep the result bytes", func() {
			got, err := store.GetEntry("1")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(got.Result)).To(MatchJSON(`{"valor": "150.00"}`))
		})
	})

	Describe("GetEntry", func() {
		When("the entry does not exist", func() {
			It("returns ErrNotFound", func() {
				_, err := store.GetEntry("missing")
				Expect(err).To(MatchError(ErrNotFound))
			})
		})
	})

	Describe("ListEntries", func() {
		When("the store is empty", func() {
			It("should return an empty list", func() {
				entries, err := store.ListEntries()
				Expect(err).NotTo(HaveOccurred())
				Expect(entries).To(BeEmpty())
			})
		})

		When("entries exist", func() {
			BeforeEach(func() {
				base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
				Expect(store.SaveEntry(&HistoryEntry{ID: "b", Result: json.RawMessage(`{}`), CreatedAt: base.Add(time.Hour)})).To(Succeed())
				Expect(store.SaveEntry(&HistoryEntry{ID: "a", Result: json.RawMessage(`{}`), CreatedAt: base.Add(2 * time.Hour)})).To(Succeed())
				Expect(store.SaveEntry(&HistoryEntry{ID: "c", Result: json.RawMessage(`{}`), CreatedAt: base})).To(Succeed())
			})

			It("should return them oldest first", func() {
				entries, err := store.ListEntries()
				Expect(err).NotTo(HaveOccurred())
				ids := []string{}
				for _, e := range entries {
					ids = append(ids, e.ID)
				}
				Expect(ids).To(Equal([]string{"c", "b", "a"}))
			})
		})
	})

	Describe("persistence", func() {
		It("should survive reopening the database", func() {
			path := filepath.Join(tmpDir, "reopen.db")
			first, err := NewBoltStore(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.SaveEntry(&HistoryEntry{ID: "x", Result: json.RawMessage(`{"ok":true}`)})).To(Succeed())
			Expect(first.Close()).To(Succeed())

			second, err := NewBoltStore(path)
			Expect(err).NotTo(HaveOccurred())
			defer second.Close()
			got, err := second.GetEntry("x")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(got.Result)).To(MatchJSON(`{"ok": true}`))
		})
	})

	Describe("NewBoltStore", func() {
		It("returns the error for an unusable path", func() {
			_, err := NewBoltStore(filepath.Join(tmpDir, "missing-dir", "history.db"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("opening boltdb"))
		})
	})
})
