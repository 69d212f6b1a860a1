package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/usecase"
	"github.com/rs/zerolog/log"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeValidation             = "VALIDATION_ERROR"
	CodeConflict               = "CONFLICT"
	CodeUnprocessable          = "UNPROCESSABLE"
	CodeSettlementBlocked      = "SETTLEMENT_BLOCKED"
	CodeInternal               = "INTERNAL_ERROR"
)

type errorResponse struct {
	Error         string                   `json:"error"`
	Code          string                   `json:"code"`
	TransactionID *uuid.UUID               `json:"transactionId,omitempty"`
	CurrentStatus domain.TransactionStatus `json:"currentStatus,omitempty"`
}

type transactionResponse struct {
	ID            uuid.UUID                `json:"id"`
	JobID         *uuid.UUID               `json:"jobId,omitempty"`
	ClientID      uuid.UUID                `json:"clientId"`
	WorkerID      *uuid.UUID               `json:"workerId,omitempty"`
	Amount        domain.Money             `json:"amount"`
	Type          domain.TransactionType   `json:"type"`
	Status        domain.TransactionStatus `json:"status"`
	Resolution    domain.Resolution        `json:"resolution,omitempty"`
	Description   string                   `json:"description,omitempty"`
	FailureReason string                   `json:"failureReason,omitempty"`
	InitiatedAt   time.Time                `json:"initiatedAt"`
	CompletedAt   *time.Time               `json:"completedAt"`
	LedgerEntries []ledgerEntryResponse    `json:"ledgerEntries,omitempty"`
}

type ledgerEntryResponse struct {
	ID              uuid.UUID        `json:"id"`
	AccountID       uuid.UUID        `json:"accountId"`
	TransactionID   *uuid.UUID       `json:"transactionId,omitempty"`
	EntryType       domain.EntryType `json:"entryType"`
	Amount          domain.Money     `json:"amount"`
	Description     string           `json:"description,omitempty"`
	ReferenceNumber string           `json:"referenceNumber"`
	PostedAt        time.Time        `json:"postedAt"`
}

type accountResponse struct {
	ID        uuid.UUID            `json:"id"`
	HolderID  uuid.UUID            `json:"holderId"`
	Type      domain.AccountType   `json:"type"`
	Balance   domain.Money         `json:"balance"`
	Status    domain.AccountStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type pageResponse[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

func toTransactionResponse(t *domain.EscrowTransaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		JobID:         t.JobID,
		ClientID:      t.ClientID,
		WorkerID:      t.WorkerID,
		Amount:        t.Amount,
		Type:          t.Type,
		Status:        t.Status,
		Resolution:    t.Resolution,
		Description:   t.Description,
		FailureReason: t.FailureReason,
		InitiatedAt:   t.InitiatedAt,
		CompletedAt:   t.CompletedAt,
	}
}

func toDetailResponse(d *usecase.TransactionDetail) transactionResponse {
	resp := toTransactionResponse(d.Transaction)
	resp.LedgerEntries = make([]ledgerEntryResponse, len(d.LedgerEntries))
	for i, e := range d.LedgerEntries {
		resp.LedgerEntries[i] = ledgerEntryResponse{
			ID:              e.ID,
			AccountID:       e.AccountID,
			TransactionID:   e.TransactionID,
			EntryType:       e.EntryType,
			Amount:          e.Amount,
			Description:     e.Description,
			ReferenceNumber: e.ReferenceNumber,
			PostedAt:        e.PostedAt,
		}
	}
	return resp
}

func toPageResponse(p domain.Page[*domain.EscrowTransaction]) pageResponse[transactionResponse] {
	content := make([]transactionResponse, len(p.Content))
	for i, t := range p.Content {
		content[i] = toTransactionResponse(t)
	}
	return pageResponse[transactionResponse]{
		Content:       content,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages(),
		Number:        p.Number,
		Size:          p.Size,
	}
}

func toAccountResponse(a *domain.EscrowAccount) accountResponse {
	return accountResponse{
		ID:        a.ID,
		HolderID:  a.HolderID,
		Type:      a.Type,
		Balance:   a.Balance,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

// respondDomainError maps domain errors to HTTP status codes. Anything it
// does not recognise is logged and reported as 500.
func respondDomainError(w http.ResponseWriter, err error) {
	var transitionErr *domain.TransitionError
	switch {
	case errors.As(err, &transitionErr):
		respondJSON(w, http.StatusConflict, errorResponse{
			Error:         transitionErr.Error(),
			Code:          CodeInvalidStateTransition,
			TransactionID: &transitionErr.TransactionID,
			CurrentStatus: transitionErr.CurrentStatus,
		})
	case errors.Is(err, domain.ErrInvalidStateTransition):
		respondError(w, http.StatusConflict, CodeInvalidStateTransition, err.Error())
	case errors.Is(err, domain.ErrSettlementBlocked):
		// Checked before not-found: a missing party account is not a missing transaction.
		respondError(w, http.StatusUnprocessableEntity, CodeSettlementBlocked, err.Error())
	case errors.Is(err, domain.ErrTransactionNotFound), errors.Is(err, domain.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrAccountStatus),
		errors.Is(err, domain.ErrAccountNotEmpty):
		respondError(w, http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAccountNotActive),
		errors.Is(err, domain.ErrCurrencyMismatch):
		respondError(w, http.StatusUnprocessableEntity, CodeUnprocessable, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}
