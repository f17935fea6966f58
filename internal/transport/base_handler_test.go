package transport_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/danuandrean/pettycash/internal"
	"github.com/danuandrean/pettycash/internal/transport"
)

func TestTransport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Suite")
}

var _ = Describe("BaseHandler", func() {
	var (
		handler *transport.BaseHandler
		rec     *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		handler = transport.NewBaseHandler(nil)
		rec = httptest.NewRecorder()
	})

	Describe("HandleServiceError", func() {
		It("writes the mapped status and error envelope for a domain error", func() {
			appErr := internal.NewNotFoundError("voucher not found", internal.ErrCodeVoucherNotFound)

			handler.HandleServiceError(rec, appErr)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

			var body struct {
				Error struct {
					Type    string `json:"type"`
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Error.Type).To(Equal("NOT_FOUND"))
			Expect(body.Error.Code).To(Equal("VOUCHER_NOT_FOUND"))
			Expect(body.Error.Message).To(Equal("voucher not found"))
		})

		It("still maps a domain error carried inside a wrapped error", func() {
			appErr := internal.NewConflictError("fund is already configured", internal.ErrCodeFundExists)
			wrapped := fmt.Errorf("create fund: %w", appErr)

			handler.HandleServiceError(rec, wrapped)

			Expect(rec.Code).To(Equal(http.StatusConflict))
		})

		It("hides unknown errors behind a 500", func() {
			handler.HandleServiceError(rec, errors.New("pq: connection refused"))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Body.String()).ToNot(ContainSubstring("connection refused"))
		})

		It("keeps the cause out of the response body", func() {
			appErr := internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).
				WithCause(errors.New("unexpected EOF at offset 12"))

			handler.HandleServiceError(rec, appErr)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).ToNot(ContainSubstring("offset 12"))
		})
	})
})
