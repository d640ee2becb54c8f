// Package sequencedelivery manages delivery layer of document numbering.
package sequencedelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/errorspkg"
	"github.com/go-bill/billcore/pkg/web"
)

// Service provides service layer interface needed by sequence delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package sequencedelivery
type Service interface {
	Next(ctx context.Context, kind domain.SequenceKind) (domain.SequenceNumber, error)
	Peek(ctx context.Context, kind domain.SequenceKind) (domain.SequenceCounter, error)
}

// Handler facilitates sequence delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns sequence handler.
func NewHandler(ss Service) Handler {
	return Handler{service: ss}
}

type kindURI struct {
	Kind string `uri:"kind" binding:"required,sequencekind"`
}

func bindErrMsg(err error) string {
	var ve validator.ValidationErrors

	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return "invalid request"
}

type numberData struct {
	Number domain.SequenceNumber `json:"number"`
}
type numberResponse struct {
	Data numberData `json:"data,omitempty"`
}

// Next handles http request to issue the next document number.
func (h *Handler) Next(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri kindURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrMsg(err)})

		return
	}

	number, err := h.service.Next(ctx, domain.SequenceKind(uri.Kind))
	if err != nil {
		switch err {
		case domain.ErrUnknownSequenceKind:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrCounterNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, numberResponse{Data: numberData{number}})
}

type counterData struct {
	Counter domain.SequenceCounter `json:"counter"`
}
type counterResponse struct {
	Data counterData `json:"data,omitempty"`
}

// Peek handles http request to inspect a counter without advancing it.
func (h *Handler) Peek(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri kindURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrMsg(err)})

		return
	}

	counter, err := h.service.Peek(ctx, domain.SequenceKind(uri.Kind))
	if err != nil {
		switch err {
		case domain.ErrUnknownSequenceKind:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrCounterNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, counterResponse{Data: counterData{counter}})
}
