package domain

import (
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRequest(t *testing.T) {
	req, err := ParsePageRequest("", "", "")
	require.NoError(t, err)
	assert.Equal(t, PageRequest{Page: 0, Size: DefaultPageSize, Direction: SortDesc}, req)

	req, err = ParsePageRequest("2", "10", "initiatedAt,asc")
	require.NoError(t, err)
	assert.Equal(t, 20, req.Offset())
	assert.Equal(t, SortAsc, req.Direction)

	for _, tc := range [][3]string{
		{"-1", "10", ""},
		{"0", "0", ""},
		{"0", "101", ""},
		{"x", "10", ""},
		{"0", "10", "amount,desc"},
		{"0", "10", "initiatedAt,sideways"},
	} {
		_, err := ParsePageRequest(tc[0], tc[1], tc[2])
		assert.ErrorIs(t, err, ErrValidation, "page=%s size=%s sort=%s", tc[0], tc[1], tc[2])
	}
}

func TestCompareInitiated_TieBreaksOnID(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &EscrowTransaction{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), InitiatedAt: at}
	b := &EscrowTransaction{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), InitiatedAt: at}
	newer := &EscrowTransaction{ID: uuid.MustParse("00000000-0000-0000-0000-000000000000"), InitiatedAt: at.Add(time.Hour)}

	list := []*EscrowTransaction{b, a, newer}
	slices.SortFunc(list, CompareInitiated(SortDesc))
	assert.Equal(t, []*EscrowTransaction{newer, a, b}, list)

	slices.SortFunc(list, CompareInitiated(SortAsc))
	assert.Equal(t, []*EscrowTransaction{a, b, newer}, list)
}

func TestTransactionFilter_IsConjunction(t *testing.T) {
	tx := &EscrowTransaction{Status: StatusPending, Type: TypeJobPayment}

	assert.True(t, TransactionFilter{}.Matches(tx))
	assert.True(t, TransactionFilter{Status: StatusPending}.Matches(tx))
	assert.True(t, TransactionFilter{Status: StatusPending, Type: TypeJobPayment}.Matches(tx))
	assert.False(t, TransactionFilter{Status: StatusPending, Type: TypePenalty}.Matches(tx))
	assert.False(t, TransactionFilter{Status: StatusCompleted}.Matches(tx))
}

func TestPage_TotalPages(t *testing.T) {
	assert.Equal(t, 3, Page[int]{TotalElements: 21, Size: 10}.TotalPages())
	assert.Equal(t, 0, Page[int]{TotalElements: 0, Size: 10}.TotalPages())
}

func TestAccount_DebitCredit(t *testing.T) {
	acc, err := NewEscrowAccount(uuid.New(), AccountClient, "NGN", time.Now())
	require.NoError(t, err)

	require.NoError(t, acc.Credit(ngn(100)))
	assert.ErrorIs(t, acc.Debit(ngn(150)), ErrInsufficientFunds)
	require.NoError(t, acc.Debit(ngn(40)))
	assert.Equal(t, "60", acc.Balance.Amount.String())

	usd, _ := NewMoney(ngn(1).Amount, "USD")
	assert.ErrorIs(t, acc.Credit(usd), ErrCurrencyMismatch)

	acc.Status = AccountFrozen
	assert.ErrorIs(t, acc.Credit(ngn(1)), ErrAccountNotActive)
}

func TestLedgerEntry_ReferenceNumber(t *testing.T) {
	at := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	entry := NewLedgerEntry(uuid.New(), nil, EntryCredit, ngn(10), "deposit", at)

	assert.Regexp(t, `^LE-20261019-[0-9A-F]{8}$`, entry.ReferenceNumber)
}
