package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/infra/http/middleware"
	"github.com/ragner01/microjobs-marketplace/internal/usecase"
)

type AccountHandler struct {
	listUC     *usecase.ListAccountsUseCase
	getUC      *usecase.GetAccountUseCase
	openUC     *usecase.OpenAccountUseCase
	depositUC  *usecase.DepositFundsUseCase
	withdrawUC *usecase.WithdrawFundsUseCase
	statusUC   *usecase.ChangeAccountStatusUseCase
}

func NewAccountHandler(
	listUC *usecase.ListAccountsUseCase,
	getUC *usecase.GetAccountUseCase,
	openUC *usecase.OpenAccountUseCase,
	depositUC *usecase.DepositFundsUseCase,
	withdrawUC *usecase.WithdrawFundsUseCase,
	statusUC *usecase.ChangeAccountStatusUseCase,
) *AccountHandler {
	return &AccountHandler{
		listUC:     listUC,
		getUC:      getUC,
		openUC:     openUC,
		depositUC:  depositUC,
		withdrawUC: withdrawUC,
		statusUC:   statusUC,
	}
}

type openAccountRequest struct {
	HolderID uuid.UUID          `json:"holderId"`
	Type     domain.AccountType `json:"type"`
	Currency string             `json:"currency"`
}

// fundsRequest is the body of deposit and withdraw calls.
type fundsRequest struct {
	Amount      domain.Money `json:"amount"`
	Description string       `json:"description"`
}

// List handles GET /accounts?holderId=&type=.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.AccountFilter
	if raw := q.Get("holderId"); raw != "" {
		holderID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, CodeValidation, "invalid holderId")
			return
		}
		filter.HolderID = &holderID
	}
	if raw := q.Get("type"); raw != "" {
		accountType, err := domain.ParseAccountType(raw)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		filter.Type = accountType
	}

	accounts, err := h.listUC.Execute(r.Context(), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = toAccountResponse(a)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	account, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid payload")
		return
	}
	account, err := h.openUC.Execute(r.Context(), usecase.OpenAccountInput{
		HolderID: req.HolderID,
		Type:     req.Type,
		Currency: req.Currency,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req fundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid payload")
		return
	}
	account, err := h.depositUC.Execute(r.Context(), usecase.DepositFundsInput{
		AccountID:   id,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req fundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "invalid payload")
		return
	}
	account, err := h.withdrawUC.Execute(r.Context(), usecase.WithdrawFundsInput{
		AccountID:   id,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, domain.AccountFreeze)
}

func (h *AccountHandler) Unfreeze(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, domain.AccountUnfreeze)
}

func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, domain.AccountClose)
}

func (h *AccountHandler) changeStatus(w http.ResponseWriter, r *http.Request, action domain.AccountAction) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	account, err := h.statusUC.Execute(r.Context(), usecase.ChangeAccountStatusInput{
		AccountID: id,
		Action:    action,
		Operator:  middleware.OperatorFrom(r.Context()),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(account))
}
