package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/infra/http/middleware"
	"github.com/ragner01/microjobs-marketplace/internal/usecase"
)

type TransactionHandler struct {
	listUC     *usecase.ListTransactionsUseCase
	getUC      *usecase.GetTransactionUseCase
	initiateUC *usecase.InitiateTransactionUseCase
	releaseUC  *usecase.ReleasePaymentUseCase
	refundUC   *usecase.RefundPaymentUseCase
}

func NewTransactionHandler(
	listUC *usecase.ListTransactionsUseCase,
	getUC *usecase.GetTransactionUseCase,
	initiateUC *usecase.InitiateTransactionUseCase,
	releaseUC *usecase.ReleasePaymentUseCase,
	refundUC *usecase.RefundPaymentUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		listUC:     listUC,
		getUC:      getUC,
		initiateUC: initiateUC,
		releaseUC:  releaseUC,
		refundUC:   refundUC,
	}
}

type createTransactionRequest struct {
	JobID       *uuid.UUID             `json:"jobId"`
	ClientID    uuid.UUID              `json:"clientId"`
	WorkerID    *uuid.UUID             `json:"workerId"`
	Amount      domain.Money           `json:"amount"`
	Type        domain.TransactionType `json:"type"`
	Description string                 `json:"description"`
}

// List handles GET /transactions?status=&type=&page=&size=&sort=.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := domain.ParsePageRequest(q.Get("page"), q.Get("size"), q.Get("sort"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result, err := h.listUC.Execute(r.Context(), usecase.ListTransactionsInput{
		Status: q.Get("status"),
		Type:   q.Get("type"),
		Page:   page,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPageResponse(result))
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDetailResponse(detail))
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid payload")
		return
	}

	created, err := h.initiateUC.Execute(r.Context(), usecase.InitiateTransactionInput{
		JobID:       req.JobID,
		ClientID:    req.ClientID,
		WorkerID:    req.WorkerID,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionResponse(created))
}

// Release handles POST /transactions/{id}/release.
func (h *TransactionHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.releaseUC.Execute)
}

// Refund handles POST /transactions/{id}/refund.
func (h *TransactionHandler) Refund(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.refundUC.Execute)
}

type settleFunc func(ctx context.Context, input usecase.SettleInput) (*domain.EscrowTransaction, error)

func (h *TransactionHandler) settle(w http.ResponseWriter, r *http.Request, execute settleFunc) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	settled, err := execute(r.Context(), usecase.SettleInput{
		TransactionID: id,
		Operator:      middleware.OperatorFrom(r.Context()),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(settled))
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
