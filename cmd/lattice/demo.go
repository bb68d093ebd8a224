package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/latticekit/lattice"
	"github.com/latticekit/lattice/internal/logging"
	"github.com/latticekit/lattice/pkg/config"
	"github.com/latticekit/lattice/pkg/dispatch"
	"github.com/latticekit/lattice/pkg/entity"
	"github.com/latticekit/lattice/pkg/pipeline"
	"github.com/latticekit/lattice/pkg/plugin"
	"github.com/latticekit/lattice/pkg/repository"
)

// product is the demo's concrete entity. It lives in the caller, not the
// framework: the framework only sees its capability contracts.
type productID string

func (id productID) String() string { return string(id) }

type product struct {
	SKU   productID `json:"sku"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

func (p product) EntityID() productID { return p.SKU }

func (p product) Validate() error {
	var violations []entity.Violation
	if p.Name == "" {
		violations = append(violations, entity.Violation{Field: "name", Reason: "required"})
	}
	if p.Price < 0 {
		violations = append(violations, entity.Violation{Field: "price", Reason: "must not be negative"})
	}
	if len(violations) > 0 {
		return entity.Invalid(violations...)
	}
	return nil
}

func (p product) Clone() product { return p }

func (p product) Display() string { return fmt.Sprintf("%s (%.2f)", p.Name, p.Price) }

func (p product) Debug() string {
	return fmt.Sprintf("product{SKU:%s Name:%q Price:%.2f}", p.SKU, p.Name, p.Price)
}

const demoConfig = `
services:
  - name: standard
    kind: flat_fee
    settings:
      fee: 0.30
handlers:
  - name: audit
    priority: 9
  - name: notify
    priority: 7
`

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an end-to-end tour of the framework components",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	log := logging.New(os.Stderr, level)

	rt := lattice.New(lattice.WithLogger(log))
	defer rt.Shutdown(ctx)

	// Repository: the second create fails validation and leaves the
	// store with one product.
	repo := repository.New[productID, product](rt.RepositoryOptions()...)
	if err := repo.Create(ctx, product{SKU: "A", Name: "Espresso", Price: 10.0}); err != nil {
		return err
	}
	if err := repo.Create(ctx, product{SKU: "B", Name: "Ristretto", Price: -5.0}); err != nil {
		fmt.Printf("rejected: %v\n", err)
	}
	all, err := repo.FindAll(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("stored products: %d\n", len(all))
	for _, p := range all {
		fmt.Printf("  %s\n", p.Display())
	}

	// Pipeline: parse, discount, label. Stage compatibility is enforced
	// by the type parameters.
	p1 := pipeline.New("19.99")
	p2, err := pipeline.ThenFunc(p1, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
	if err != nil {
		return err
	}
	p3, err := pipeline.ThenFunc(p2, func(v float64) (float64, error) {
		return v * 0.9, nil
	})
	if err != nil {
		return err
	}
	p4, err := pipeline.ThenFunc(p3, func(v float64) (string, error) {
		return fmt.Sprintf("discounted to %.2f", v), nil
	})
	if err != nil {
		return err
	}
	if label, ok := p4.Finalize(); ok {
		fmt.Println(label)
	}

	// Dispatcher: audit always runs, notify only when metadata is
	// present; both outcomes are reported independently.
	cfg, err := config.Load(strings.NewReader(demoConfig))
	if err != nil {
		return err
	}
	auditPriority, _ := cfg.PriorityFor("audit")
	notifyPriority, _ := cfg.PriorityFor("notify")

	rt.Dispatcher().AddHandler(dispatch.HandlerFunc("audit", auditPriority, nil,
		func(evt dispatch.Event) (dispatch.Result, error) {
			return dispatch.Result{Output: "audited " + evt.Payload().Display()}, nil
		}))
	rt.Dispatcher().AddHandler(dispatch.HandlerFunc("notify", notifyPriority,
		func(evt dispatch.Event) bool { return len(evt.Metadata()) > 0 },
		func(evt dispatch.Event) (dispatch.Result, error) {
			return dispatch.Result{Output: "notified " + evt.Metadata()["channel"]}, nil
		}))

	evt := dispatch.NewEvent("product.created", all[0], map[string]string{"channel": "ops"})
	for _, outcome := range rt.Dispatcher().Dispatch(evt) {
		if outcome.Err != nil {
			fmt.Printf("handler %s failed: %v\n", outcome.Handler, outcome.Err)
			continue
		}
		fmt.Printf("handler %s: %s\n", outcome.Handler, outcome.Result.Display())
	}

	// Plugin registry: services are declared in config and built through
	// factories, then invoked by name.
	factories := map[string]config.Factory{
		"flat_fee": newFlatFeeService,
	}
	if err := config.Apply(ctx, cfg, rt.Registry(), factories); err != nil {
		return err
	}
	resp, err := rt.Registry().Invoke(ctx, "standard", plugin.Request{Amount: 42.00, Currency: "EUR"})
	if err != nil {
		return err
	}
	fmt.Printf("charged %.2f, reference %s\n", 42.00, resp.Reference)
	for _, txn := range rt.Registry().Transactions() {
		fmt.Printf("txn %s: service=%s amount=%.2f fee=%.2f\n", txn.ID, txn.Service, txn.Amount, txn.Fee)
	}
	return nil
}
