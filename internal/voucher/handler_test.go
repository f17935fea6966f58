package voucher_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"

	"github.com/danuandrean/pettycash/internal/auth"
	"github.com/danuandrean/pettycash/internal/voucher"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Stub service returning canned errors so handler mapping can be asserted
// without a repository.
type stubVoucherService struct {
	createErr     error
	getErr        error
	transitionErr error
}

func (s *stubVoucherService) CreateVoucher(dto voucher.CreateVoucherDTO, requestedByID int64) (*voucher.Voucher, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &voucher.Voucher{ID: 1, Status: voucher.StatusPending}, nil
}

func (s *stubVoucherService) GetVoucher(id int64) (*voucher.Voucher, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &voucher.Voucher{ID: id, Status: voucher.StatusPending}, nil
}

func (s *stubVoucherService) ListVouchers(status string, limit, offset int) ([]*voucher.Voucher, error) {
	return nil, nil
}

func (s *stubVoucherService) ApproveVoucher(voucherID, approverID int64) (*voucher.Voucher, error) {
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	return &voucher.Voucher{ID: voucherID, Status: voucher.StatusApproved}, nil
}

func (s *stubVoucherService) RejectVoucher(voucherID, approverID int64) (*voucher.Voucher, error) {
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	return &voucher.Voucher{ID: voucherID, Status: voucher.StatusRejected}, nil
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("VoucherHandler", func() {
	actor := &auth.User{ID: 7, Role: auth.RoleApprover, IsActive: true}

	post := func(h *voucher.Handler, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/vouchers", strings.NewReader(body))
		req = req.WithContext(auth.ContextWithUser(req.Context(), actor))
		rec := httptest.NewRecorder()
		h.CreateVoucher(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder) errorBody {
		var body errorBody
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	It("responds 422 with the error code when the fund cannot cover the voucher", func() {
		h := voucher.NewHandler(&stubVoucherService{createErr: voucher.ErrInsufficientFunds})

		rec := post(h, `{"payee":"ACME"}`)

		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		body := decode(rec)
		Expect(body.Error.Code).To(Equal("INSUFFICIENT_FUND_BALANCE"))
		Expect(body.Error.Type).To(Equal("UNPROCESSABLE"))
	})

	It("responds 409 when the voucher number space is exhausted", func() {
		h := voucher.NewHandler(&stubVoucherService{createErr: voucher.ErrNumberExhausted})

		rec := post(h, `{"payee":"ACME"}`)

		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(decode(rec).Error.Code).To(Equal("VOUCHER_NUMBER_EXHAUSTED"))
	})

	It("responds 400 with validation details for a malformed body", func() {
		h := voucher.NewHandler(&stubVoucherService{})

		rec := post(h, `{not json`)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(rec).Error.Code).To(Equal("VALIDATION_FAILED"))
	})

	It("responds 404 for an unknown voucher", func() {
		h := voucher.NewHandler(&stubVoucherService{getErr: voucher.ErrVoucherNotFound})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vouchers/42", nil)
		req = withURLParam(req, "id", "42")
		rec := httptest.NewRecorder()
		h.GetVoucher(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(decode(rec).Error.Code).To(Equal("VOUCHER_NOT_FOUND"))
	})

	It("responds 409 for an illegal status transition", func() {
		h := voucher.NewHandler(&stubVoucherService{transitionErr: voucher.ErrInvalidTransition})

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/vouchers/42/approve", nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), actor))
		req = withURLParam(req, "id", "42")
		rec := httptest.NewRecorder()
		h.ApproveVoucher(rec, req)

		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(decode(rec).Error.Code).To(Equal("INVALID_STATUS_TRANSITION"))
	})

	It("responds 400 with the offending value for an unknown status filter", func() {
		h := voucher.NewHandler(&stubVoucherService{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vouchers?status=settled", nil)
		rec := httptest.NewRecorder()
		h.ListVouchers(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(rec).Error.Code).To(Equal("INVALID_STATUS"))
	})
})
