package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

// API is the part of the REST client a Screen needs.
type API interface {
	ListTransactions(ctx context.Context, q TransactionQuery) (*TransactionPage, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Release(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Refund(ctx context.Context, id uuid.UUID) (*Transaction, error)
}

// Confirmer asks the operator to approve a pending action.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// PendingAction is a release or refund that has been requested but not sent.
type PendingAction struct {
	Operation   domain.Operation
	Transaction Transaction
	Prompt      string
}

type Row struct {
	Transaction
	Busy bool
}

// Screen holds the filters, page and rows of the transactions view. Rows are
// only ever replaced by a server response, never edited locally.
type Screen struct {
	api API

	mu         sync.Mutex
	query      TransactionQuery
	page       TransactionPage
	busy       map[uuid.UUID]domain.Operation
	refreshErr error
}

func NewScreen(api API, pageSize int) *Screen {
	if pageSize <= 0 || pageSize > domain.MaxPageSize {
		pageSize = domain.DefaultPageSize
	}
	return &Screen{
		api:   api,
		query: TransactionQuery{Size: pageSize, Direction: domain.SortDesc},
		busy:  make(map[uuid.UUID]domain.Operation),
	}
}

// Refresh reloads the current page with the current filters.
func (s *Screen) Refresh(ctx context.Context) error {
	s.mu.Lock()
	q := s.query
	s.mu.Unlock()

	page, err := s.api.ListTransactions(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshErr = err
	if err != nil {
		return err
	}
	if s.query == q {
		s.page = *page
	}
	return nil
}

func (s *Screen) SetStatusFilter(status domain.TransactionStatus) error {
	if status != "" && !status.Valid() {
		return domain.Validationf("unknown status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Status = status
	s.query.Page = 0
	return nil
}

func (s *Screen) SetTypeFilter(t domain.TransactionType) error {
	if t != "" && !t.Valid() {
		return domain.Validationf("unknown type %q", t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Type = t
	s.query.Page = 0
	return nil
}

func (s *Screen) SetDirection(dir domain.SortDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Direction = dir
	s.query.Page = 0
}

func (s *Screen) SetPage(page int) error {
	if page < 0 {
		return domain.Validationf("page must be >= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Page = page
	return nil
}

func (s *Screen) SetPageSize(size int) error {
	if size <= 0 || size > domain.MaxPageSize {
		return domain.Validationf("size must be between 1 and %d", domain.MaxPageSize)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Size = size
	s.query.Page = 0
	return nil
}

// NextPage advances unless the last loaded page was the final one.
func (s *Screen) NextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query.Page+1 >= s.page.TotalPages {
		return false
	}
	s.query.Page++
	return true
}

func (s *Screen) PrevPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query.Page == 0 {
		return false
	}
	s.query.Page--
	return true
}

func (s *Screen) Query() TransactionQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Rows returns the loaded rows with their busy flags.
func (s *Screen) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]Row, len(s.page.Content))
	for i, tx := range s.page.Content {
		_, busy := s.busy[tx.ID]
		rows[i] = Row{Transaction: tx, Busy: busy}
	}
	return rows
}

func (s *Screen) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page.TotalElements
}

// Err returns the error of the last refresh, if it failed.
func (s *Screen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshErr
}

func (s *Screen) Show(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.api.GetTransaction(ctx, id)
}

func (s *Screen) RequestRelease(ctx context.Context, id uuid.UUID) (*PendingAction, error) {
	return s.request(ctx, domain.OperationRelease, id)
}

func (s *Screen) RequestRefund(ctx context.Context, id uuid.UUID) (*PendingAction, error) {
	return s.request(ctx, domain.OperationRefund, id)
}

// request loads the transaction so the prompt shows current server data.
// Nothing is changed until the action is executed.
func (s *Screen) request(ctx context.Context, op domain.Operation, id uuid.UUID) (*PendingAction, error) {
	tx, err := s.api.GetTransaction(ctx, id)
	if err != nil {
		return nil, &OperationError{Operation: op, TransactionID: id, Err: err}
	}
	if !tx.Settleable() {
		return nil, &OperationError{
			Operation:     op,
			TransactionID: id,
			CurrentStatus: tx.Status,
			Err:           fmt.Errorf("%w: %s %s transaction cannot be settled", domain.ErrInvalidStateTransition, tx.Status, tx.Type),
		}
	}
	if op == domain.OperationRelease && tx.WorkerID == nil {
		return nil, &OperationError{
			Operation:     op,
			TransactionID: id,
			CurrentStatus: tx.Status,
			Err:           fmt.Errorf("%w: no worker assigned", domain.ErrInvalidStateTransition),
		}
	}
	return &PendingAction{Operation: op, Transaction: *tx, Prompt: prompt(op, tx)}, nil
}

func prompt(op domain.Operation, tx *Transaction) string {
	if op == domain.OperationRelease {
		return fmt.Sprintf("Release %s from transaction %s to worker %s?", tx.Amount, tx.ID, tx.WorkerID)
	}
	return fmt.Sprintf("Refund %s from transaction %s to client %s?", tx.Amount, tx.ID, tx.ClientID)
}

// Execute sends action once the operator confirms it. The row stays busy
// until the server answers, and the page is reloaded afterwards whatever the
// outcome. Failed calls are never retried.
func (s *Screen) Execute(ctx context.Context, action *PendingAction, confirmer Confirmer) (*Transaction, error) {
	id := action.Transaction.ID
	if s.isBusy(id) {
		return nil, &OperationError{Operation: action.Operation, TransactionID: id, Err: ErrActionInFlight}
	}

	ok, err := confirmer.Confirm(action.Prompt)
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return nil, ErrDeclined
	}

	if !s.markBusy(id, action.Operation) {
		return nil, &OperationError{Operation: action.Operation, TransactionID: id, Err: ErrActionInFlight}
	}
	var result *Transaction
	switch action.Operation {
	case domain.OperationRelease:
		result, err = s.api.Release(ctx, id)
	case domain.OperationRefund:
		result, err = s.api.Refund(ctx, id)
	default:
		err = &OperationError{Operation: action.Operation, TransactionID: id, Err: domain.Validationf("unknown operation")}
	}
	s.clearBusy(id)

	// The refresh error is kept on the screen; the action outcome wins.
	_ = s.Refresh(ctx)
	return result, err
}

func (s *Screen) isBusy(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.busy[id]
	return busy
}

func (s *Screen) markBusy(id uuid.UUID, op domain.Operation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.busy[id]; busy {
		return false
	}
	s.busy[id] = op
	return true
}

func (s *Screen) clearBusy(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, id)
}
