package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("run", func() {
	var (
		tempDir string
		backend *ghttp.Server
		photo   string
		stdout  *bytes.Buffer
		stderr  *bytes.Buffer
		ctx     context.Context
	)

	runWith := func(out io.Writer, args ...string) int {
		return run(ctx, args, strings.NewReader(""), out, stderr)
	}

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		backend = ghttp.NewServer()
		photo = filepath.Join(tempDir, "foto.jpg")
		Expect(os.WriteFile(photo, []byte("jpeg bytes"), 0644)).To(Succeed())
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
		ctx = context.Background()
	})

	AfterEach(func() {
		backend.Close()
	})

	When("the upload succeeds", func() {
		var historyDB string

		BeforeEach(func() {
			historyDB = filepath.Join(tempDir, "history.db")
			backend.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/boleto/upload"),
				ghttp.RespondWith(http.StatusOK, `{"valor": "150.00"}`),
			))
		})

		It("prints the result and lists the upload in the history", func() {
			Expect(runWith(stdout, "--base-url", backend.URL(), "--history-db", historyDB, "upload", photo)).To(Equal(0))
			Expect(stdout.String()).To(MatchJSON(`{"valor": "150.00"}`))

			listing := &bytes.Buffer{}
			Expect(runWith(listing, "--history-db", historyDB, "history")).To(Equal(0))
			Expect(listing.String()).To(ContainSubstring("\timage/jpeg\tfoto.jpg\n"))
		})
	})

	When("the history database cannot be opened", func() {
		BeforeEach(func() {
			backend.AppendHandlers(ghttp.RespondWith(http.StatusOK, `{"valor": "150.00"}`))
		})

		It("still uploads and shows the result", func() {
			code := runWith(stdout, "--base-url", backend.URL(), "--history-db", filepath.Join(tempDir, "missing", "h.db"), "upload", photo)
			Expect(code).To(Equal(0))
			Expect(backend.ReceivedRequests()).To(HaveLen(1))
			Expect(stdout.String()).To(MatchJSON(`{"valor": "150.00"}`))
			Expect(stderr.String()).To(ContainSubstring("History disabled"))
			Expect(stderr.String()).NotTo(ContainSubstring("Command failed"))
		})
	})

	When("the backend rejects the file", func() {
		BeforeEach(func() {
			backend.AppendHandlers(ghttp.RespondWith(http.StatusBadRequest, `{"error": "Boleto ilegível"}`))
		})

		It("alerts once and exits non-zero", func() {
			code := runWith(stdout, "--base-url", backend.URL(), "--history-db", "", "upload", photo)
			Expect(code).To(Equal(1))
			Expect(stderr.String()).To(ContainSubstring("Erro ao processar o boleto: Boleto ilegível"))
			Expect(stderr.String()).NotTo(ContainSubstring("Command failed"))
		})
	})

	When("the result cannot be shown", func() {
		BeforeEach(func() {
			backend.AppendHandlers(ghttp.RespondWith(http.StatusOK, `{"valor": "150.00"}`))
		})

		It("logs the failure instead of exiting silently", func() {
			code := runWith(failingWriter{}, "--base-url", backend.URL(), "--history-db", "", "upload", photo)
			Expect(code).To(Equal(1))
			Expect(stderr.String()).To(ContainSubstring("Command failed"))
			Expect(stderr.String()).To(ContainSubstring("navigating to results"))
		})
	})

	When("the file does not exist", func() {
		It("logs the acquisition error once without sending anything", func() {
			code := runWith(stdout, "--base-url", backend.URL(), "--history-db", "", "upload", filepath.Join(tempDir, "nada.jpg"))
			Expect(code).To(Equal(1))
			Expect(backend.ReceivedRequests()).To(BeEmpty())
			Expect(stderr.String()).To(ContainSubstring("reading file"))
			Expect(stderr.String()).NotTo(ContainSubstring("Command failed"))
		})
	})
})
