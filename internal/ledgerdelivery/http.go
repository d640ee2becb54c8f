// Package ledgerdelivery manages delivery layer of ledger postings.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/internal/middleware"
	"github.com/go-bill/billcore/pkg/errorspkg"
	"github.com/go-bill/billcore/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Apply(ctx context.Context, arg domain.CreatePostingParams) (domain.PostingResult, error)
	RefundForInvoice(ctx context.Context, invoice domain.Invoice, reason domain.RefundReason, actor string) (domain.PostingResult, error)
	History(ctx context.Context, customerID string, limit int32) ([]domain.Transaction, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) Handler {
	return Handler{service: ls}
}

func bindErrMsg(err error) string {
	var ve validator.ValidationErrors

	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return "invalid request"
}

type postingData struct {
	Posting domain.PostingResult `json:"posting"`
}
type postingResponse struct {
	Data postingData `json:"data,omitempty"`
}

type createPostingRequest struct {
	CustomerID      string          `json:"customer_id" binding:"required"`
	Type            string          `json:"transaction_type" binding:"required,transactiontype"`
	Amount          string          `json:"amount" binding:"required"`
	InvoiceID       string          `json:"invoice_id"`
	OrderID         string          `json:"order_id"`
	PaymentMethod   string          `json:"payment_method"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"reference_number"`
	Metadata        domain.Metadata `json:"metadata"`
}

// CreatePosting handles http request to apply one ledger posting.
func (h *Handler) CreatePosting(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req createPostingRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrMsg(err)})

		return
	}

	actor := gctx.MustGet(middleware.ActorKey).(string)

	result, err := h.service.Apply(ctx, domain.CreatePostingParams{
		CustomerID:      req.CustomerID,
		Type:            domain.TransactionType(req.Type),
		Amount:          req.Amount,
		InvoiceID:       req.InvoiceID,
		OrderID:         req.OrderID,
		PaymentMethod:   req.PaymentMethod,
		Description:     req.Description,
		ReferenceNumber: req.ReferenceNumber,
		Metadata:        req.Metadata,
		Actor:           actor,
	})
	if err != nil {
		switch err {
		case domain.ErrInvalidAmount, domain.ErrUnknownTransactionType:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrUnauthenticated:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		case domain.ErrStaleAccount:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, postingResponse{Data: postingData{result}})
}

type refundInvoiceRequest struct {
	InvoiceID     string `json:"invoice_id" binding:"required"`
	CustomerID    string `json:"customer_id" binding:"required"`
	TotalAmount   string `json:"total_amount" binding:"required"`
	PaymentAmount string `json:"payment_amount" binding:"required"`
	BalanceAmount string `json:"balance_amount" binding:"required"`
	PaymentMethod string `json:"payment_method"`
	Reason        string `json:"reason" binding:"required"`
}

// RefundInvoice handles http request to refund the balance-paid portion of
// a cancelled or deleted invoice.
func (h *Handler) RefundInvoice(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req refundInvoiceRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrMsg(err)})

		return
	}

	actor := gctx.MustGet(middleware.ActorKey).(string)

	invoice := domain.Invoice{
		ID:            req.InvoiceID,
		CustomerID:    req.CustomerID,
		TotalAmount:   req.TotalAmount,
		PaymentAmount: req.PaymentAmount,
		BalanceAmount: req.BalanceAmount,
		PaymentMethod: req.PaymentMethod,
	}

	result, err := h.service.RefundForInvoice(ctx, invoice, domain.RefundReason(req.Reason), actor)
	if err != nil {
		switch err {
		case domain.ErrInvalidAmount, domain.ErrUnknownRefundReason:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrUnauthenticated:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, postingResponse{Data: postingData{result}})
}

type historyURI struct {
	CustomerID string `uri:"id" binding:"required"`
}

type historyQuery struct {
	Limit int32 `form:"limit" binding:"omitempty,min=1,max=500"`
}

type historyData struct {
	Transactions []domain.Transaction `json:"transactions"`
}
type historyResponse struct {
	Data historyData `json:"data,omitempty"`
}

// ListTransactions handles http request to read a customer's transaction
// history, newest first.
func (h *Handler) ListTransactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri historyURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrMsg(err)})

		return
	}

	var query historyQuery
	if err := gctx.ShouldBindQuery(&query); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrMsg(err)})

		return
	}

	transactions, err := h.service.History(ctx, uri.CustomerID, query.Limit)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, historyResponse{Data: historyData{transactions}})
}
