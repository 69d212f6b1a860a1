package domain

import (
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SortDirection string

const (
	SortDesc SortDirection = "desc"
	SortAsc  SortDirection = "asc"
)

// TransactionFilter narrows a listing. Empty fields match anything and
// set fields combine with AND.
type TransactionFilter struct {
	Status TransactionStatus
	Type   TransactionType
}

func (f TransactionFilter) Matches(t *EscrowTransaction) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	return true
}

// PageRequest always sorts by initiatedAt, ties broken by id ascending.
type PageRequest struct {
	Page      int
	Size      int
	Direction SortDirection
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

func (p PageRequest) Validate() error {
	if p.Page < 0 {
		return Validationf("page must be >= 0")
	}
	if p.Size <= 0 || p.Size > MaxPageSize {
		return Validationf("size must be between 1 and %d", MaxPageSize)
	}
	if p.Direction != SortAsc && p.Direction != SortDesc {
		return Validationf("unknown sort direction %q", p.Direction)
	}
	return nil
}

// ParseSort accepts "initiatedAt", "initiatedAt,desc" or "initiatedAt,asc".
func ParseSort(raw string) (SortDirection, error) {
	if raw == "" {
		return SortDesc, nil
	}
	field, dir, _ := strings.Cut(raw, ",")
	if field != "initiatedAt" {
		return "", Validationf("unsupported sort field %q", field)
	}
	switch strings.ToLower(dir) {
	case "", "desc":
		return SortDesc, nil
	case "asc":
		return SortAsc, nil
	}
	return "", Validationf("unsupported sort direction %q", dir)
}

// ParsePageRequest builds a PageRequest from raw query values. Empty values
// fall back to page 0, DefaultPageSize and initiatedAt,desc.
func ParsePageRequest(page, size, sort string) (PageRequest, error) {
	req := PageRequest{Size: DefaultPageSize}
	var err error
	if page != "" {
		if req.Page, err = strconv.Atoi(page); err != nil {
			return PageRequest{}, Validationf("page must be an integer")
		}
	}
	if size != "" {
		if req.Size, err = strconv.Atoi(size); err != nil {
			return PageRequest{}, Validationf("size must be an integer")
		}
	}
	if req.Direction, err = ParseSort(sort); err != nil {
		return PageRequest{}, err
	}
	return req, req.Validate()
}

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Content       []T
	TotalElements int64
	Number        int
	Size          int
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

// CompareInitiated orders transactions by initiatedAt in the given direction
// and then by id ascending. It is usable with slices.SortFunc.
func CompareInitiated(dir SortDirection) func(a, b *EscrowTransaction) int {
	return func(a, b *EscrowTransaction) int {
		if c := a.InitiatedAt.Compare(b.InitiatedAt); c != 0 {
			if dir == SortAsc {
				return c
			}
			return -c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	}
}
