package api

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("APIError", func() {
	DescribeTable("message extraction",
		func(body, expectedMessage, expectedError string) {
			apiErr := newAPIError(500, []byte(body))
			Expect(apiErr.Message).To(Equal(expectedMessage))
			Expect(apiErr.Error()).To(Equal(expectedError))
		},
		Entry("string error field", `{"error": "arquivo inválido"}`, "arquivo inválido", "api error (status 500): arquivo inválido"),
		Entry("structured error field", `{"error": {"code": 3}}`, `{"code": 3}`, `api error (status 500): {"code": 3}`),
		Entry("null error field", `{"error": null}`, "", `api error (status 500): {"error": null}`),
		Entry("no error field", `{"detail": "x"}`, "", `api error (status 500): {"detail": "x"}`),
		Entry("plain text body", "Bad Gateway", "", "api error (status 500): Bad Gateway"),
		Entry("empty body", "", "", "api error (status 500)"),
	)
})

var _ = Describe("BaseURL", func() {
	It("defaults to production", func() {
		Expect(BaseURL("", "")).To(Equal("https://detectabb-backend.onrender.com"))
	})

	It("selects the local backend", func() {
		Expect(BaseURL(EnvLocal, "")).To(Equal("http://localhost:5000"))
	})

	It("is case insensitive", func() {
		Expect(BaseURL("LOCAL", "")).To(Equal("http://localhost:5000"))
	})

	It("prefers an explicit override", func() {
		Expect(BaseURL(EnvProd, "http://10.0.0.2:5000/")).To(Equal("http://10.0.0.2:5000"))
	})

	It("rejects unknown environments", func() {
		_, err := BaseURL("staging", "")
		Expect(err).To(MatchError(ContainSubstring("unknown environment")))
	})
})
