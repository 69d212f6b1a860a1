package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/ragner01/microjobs-marketplace/internal/console"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

const usage = `usage: console [flags] <command> [args]

commands:
  list      [-status S] [-type T] [-page N] [-size N] [-asc]
  show      <transaction-id>
  release   <transaction-id>
  refund    <transaction-id>
  accounts  [-holder ID] [-type T]

flags:
`

func main() {
	_ = godotenv.Load()

	global := flag.NewFlagSet("console", flag.ExitOnError)
	apiURL := global.String("api", envOr("ESCROW_API_URL", "http://localhost:8080"), "escrow API base URL")
	token := global.String("token", os.Getenv("ESCROW_API_TOKEN"), "operator bearer token")
	operator := global.String("operator", os.Getenv("ESCROW_OPERATOR"), "operator id when the API runs without tokens")
	timeout := global.Duration("timeout", 15*time.Second, "HTTP timeout; a timed-out settlement must be verified manually")
	color := global.Bool("color", true, "color status and type columns")
	global.Usage = func() {
		fmt.Fprint(global.Output(), usage)
		global.PrintDefaults()
	}
	_ = global.Parse(os.Args[1:])
	if global.NArg() == 0 {
		global.Usage()
		os.Exit(2)
	}

	client := console.NewClient(*apiURL,
		console.WithToken(*token),
		console.WithOperator(*operator),
		console.WithHTTPClient(&http.Client{Timeout: *timeout}),
	)
	app := &app{
		client: client,
		out:    os.Stdout,
		in:     bufio.NewReader(os.Stdin),
		color:  *color,
	}

	ctx := context.Background()
	cmd, args := global.Arg(0), global.Args()[1:]
	var err error
	switch cmd {
	case "list":
		err = app.list(ctx, args)
	case "show":
		err = app.show(ctx, args)
	case "release":
		err = app.settle(ctx, domain.OperationRelease, args)
	case "refund":
		err = app.settle(ctx, domain.OperationRefund, args)
	case "accounts":
		err = app.accounts(ctx, args)
	default:
		global.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if console.IsTransient(err) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

type app struct {
	client *console.Client
	out    io.Writer
	in     *bufio.Reader
	color  bool
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "PENDING, COMPLETED, FAILED or CANCELLED")
	txType := fs.String("type", "", "JOB_PAYMENT, DISPUTE_REFUND, PLATFORM_FEE or PENALTY")
	page := fs.Int("page", 0, "zero-based page index")
	size := fs.Int("size", domain.DefaultPageSize, "page size")
	asc := fs.Bool("asc", false, "oldest first")
	_ = fs.Parse(args)

	screen := console.NewScreen(a.client, *size)
	if err := screen.SetStatusFilter(domain.TransactionStatus(strings.ToUpper(*status))); err != nil {
		return err
	}
	if err := screen.SetTypeFilter(domain.TransactionType(strings.ToUpper(*txType))); err != nil {
		return err
	}
	if err := screen.SetPage(*page); err != nil {
		return err
	}
	if *asc {
		screen.SetDirection(domain.SortAsc)
	}
	if err := screen.Refresh(ctx); err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tAMOUNT\tWORKER\tINITIATED")
	for _, row := range screen.Rows() {
		worker := "-"
		if row.WorkerID != nil {
			worker = row.WorkerID.String()[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ID,
			a.badge(console.TypeBadge(row.Type)),
			a.badge(console.StatusBadge(row.Status)),
			row.Amount,
			worker,
			row.InitiatedAt.Local().Format(time.DateTime),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	q := screen.Query()
	fmt.Fprintf(a.out, "page %d, %d transactions\n", q.Page, screen.Total())
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	tx, err := a.client.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Transaction\t%s\n", tx.ID)
	fmt.Fprintf(w, "Job\t%s\n", optional(tx.JobID))
	fmt.Fprintf(w, "Type\t%s\n", a.badge(console.TypeBadge(tx.Type)))
	fmt.Fprintf(w, "Status\t%s\n", a.badge(console.StatusBadge(tx.Status)))
	if tx.Resolution != "" {
		fmt.Fprintf(w, "Resolution\t%s\n", tx.Resolution)
	}
	fmt.Fprintf(w, "Client\t%s\n", tx.ClientID)
	fmt.Fprintf(w, "Worker\t%s\n", optional(tx.WorkerID))
	fmt.Fprintf(w, "Amount\t%s\n", tx.Amount)
	fmt.Fprintf(w, "Description\t%s\n", tx.Description)
	if tx.FailureReason != "" {
		fmt.Fprintf(w, "Failure\t%s\n", tx.FailureReason)
	}
	fmt.Fprintf(w, "Initiated\t%s\n", tx.InitiatedAt.Local().Format(time.DateTime))
	completed := "-"
	if tx.CompletedAt != nil {
		completed = tx.CompletedAt.Local().Format(time.DateTime)
	}
	fmt.Fprintf(w, "Completed\t%s\n", completed)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(tx.LedgerEntries) == 0 {
		return nil
	}
	fmt.Fprintln(a.out, "\nLedger")
	w = tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REFERENCE\tACCOUNT\tENTRY\tAMOUNT\tPOSTED")
	for _, e := range tx.LedgerEntries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ReferenceNumber, e.AccountID, e.EntryType, e.Amount, e.PostedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func (a *app) settle(ctx context.Context, op domain.Operation, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	screen := console.NewScreen(a.client, domain.DefaultPageSize)
	var action *console.PendingAction
	if op == domain.OperationRelease {
		action, err = screen.RequestRelease(ctx, id)
	} else {
		action, err = screen.RequestRefund(ctx, id)
	}
	if err != nil {
		return err
	}

	tx, err := screen.Execute(ctx, action, console.ConfirmFunc(a.confirm))
	if errors.Is(err, console.ErrDeclined) {
		fmt.Fprintln(a.out, "cancelled, nothing was sent")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: transaction %s is %s (%s)\n", op, tx.ID, tx.Status, tx.Resolution)
	return nil
}

func (a *app) accounts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	holder := fs.String("holder", "", "holder id")
	accType := fs.String("type", "", "CLIENT, WORKER, PLATFORM or ESCROW_HOLD")
	_ = fs.Parse(args)

	var q console.AccountQuery
	if *holder != "" {
		id, err := uuid.Parse(*holder)
		if err != nil {
			return domain.Validationf("invalid holder id %q", *holder)
		}
		q.HolderID = &id
	}
	q.Type = domain.AccountType(strings.ToUpper(*accType))

	accounts, err := a.client.ListAccounts(ctx, q)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tHOLDER\tTYPE\tSTATUS\tBALANCE")
	for _, acc := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", acc.ID, acc.HolderID, acc.Type, acc.Status, acc.Balance)
	}
	return w.Flush()
}

func (a *app) confirm(prompt string) (bool, error) {
	// Always interactive: a release or refund needs a typed "yes".
	fmt.Fprintln(a.out, prompt)
	fmt.Fprint(a.out, "Type 'yes' to continue: ")
	answer, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), "yes"), nil
}

func (a *app) badge(b console.Badge) string {
	if a.color {
		return b.ANSI()
	}
	return b.Label
}

func parseID(args []string) (uuid.UUID, error) {
	if len(args) != 1 {
		return uuid.Nil, domain.Validationf("expected exactly one transaction id")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, domain.Validationf("invalid transaction id %q", args[0])
	}
	return id, nil
}

func optional(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
