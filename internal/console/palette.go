package console

import "github.com/ragner01/microjobs-marketplace/internal/domain"

// Badge is how an enum value is shown: a label and a color name.
type Badge struct {
	Label string
	Color string
}

var StatusBadges = map[domain.TransactionStatus]Badge{
	domain.StatusPending:   {Label: "Pending", Color: "orange"},
	domain.StatusCompleted: {Label: "Completed", Color: "green"},
	domain.StatusFailed:    {Label: "Failed", Color: "red"},
	domain.StatusCancelled: {Label: "Cancelled", Color: "gray"},
}

var TypeBadges = map[domain.TransactionType]Badge{
	domain.TypeJobPayment:    {Label: "Job Payment", Color: "blue"},
	domain.TypeDisputeRefund: {Label: "Dispute Refund", Color: "orange"},
	domain.TypePlatformFee:   {Label: "Platform Fee", Color: "green"},
	domain.TypePenalty:       {Label: "Penalty", Color: "red"},
}

var ansiColors = map[string]string{
	"orange": "\033[33m",
	"green":  "\033[32m",
	"red":    "\033[31m",
	"gray":   "\033[90m",
	"blue":   "\033[34m",
}

const ansiReset = "\033[0m"

func StatusBadge(s domain.TransactionStatus) Badge {
	if b, ok := StatusBadges[s]; ok {
		return b
	}
	return Badge{Label: string(s), Color: "default"}
}

func TypeBadge(t domain.TransactionType) Badge {
	if b, ok := TypeBadges[t]; ok {
		return b
	}
	return Badge{Label: string(t), Color: "default"}
}

// ANSI renders the badge label for a terminal. Unknown colors are left plain.
func (b Badge) ANSI() string {
	code, ok := ansiColors[b.Color]
	if !ok {
		return b.Label
	}
	return code + b.Label + ansiReset
}
