package service_test

import (
	"errors"
	"sync"
	"testing"

	"agritrack-api/internal/model"
	"agritrack-api/internal/service"

	"github.com/google/uuid"
)

func txRequest(p *model.Product, txType string, qty int) *service.CreateTransactionRequest {
	return &service.CreateTransactionRequest{ProductID: p.ID.String(), Type: txType, Quantity: intPtr(qty)}
}

func TestDispatchSubtractsStock(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "Corn Seeds", 100)

	tx, err := f.transactions.CreateTransaction(txRequest(p, "dispatch", 30), f.admin)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if tx.PreviousQuantity != 100 || tx.NewQuantity != 70 || tx.Quantity != 30 {
		t.Errorf("transaction = %+v", tx)
	}
	if tx.Product == nil || tx.Product.Name != "Corn Seeds" {
		t.Errorf("product not populated: %+v", tx.Product)
	}
	if got := f.quantityOf(t, p); got != 70 {
		t.Errorf("quantity = %d, want 70", got)
	}
}

func TestDispatchBeyondStockIsRejected(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "Corn Seeds", 70)
	before := countRows(t, f.db, &model.Transaction{})

	_, err := f.transactions.CreateTransaction(txRequest(p, "dispatch", 1000), f.admin)
	if !errors.Is(err, service.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if err.Error() != "Insufficient stock for dispatch" {
		t.Errorf("message = %q", err.Error())
	}
	if got := f.quantityOf(t, p); got != 70 {
		t.Errorf("quantity = %d, want 70", got)
	}
	if after := countRows(t, f.db, &model.Transaction{}); after != before {
		t.Errorf("transactions %d -> %d, want unchanged", before, after)
	}

	entries := f.recorder.Entries()
	last := entries[len(entries)-1]
	if last.Action != model.ActionCreateTransaction || last.Status != model.ActivityFailed {
		t.Errorf("last audit entry = %+v", last)
	}
}

func TestDispatchExactStock(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "Corn Seeds", 5)

	if _, err := f.transactions.CreateTransaction(txRequest(p, "dispatch", 5), f.admin); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := f.quantityOf(t, p); got != 0 {
		t.Errorf("quantity = %d, want 0", got)
	}
}

func TestAddAndUpdateTransactions(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "Corn Seeds", 10)

	tx, err := f.transactions.CreateTransaction(txRequest(p, "add", 15), f.admin)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tx.PreviousQuantity != 10 || tx.NewQuantity != 25 {
		t.Errorf("add transaction = %+v", tx)
	}

	tx, err = f.transactions.CreateTransaction(txRequest(p, "update", 3), f.admin)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if tx.PreviousQuantity != 25 || tx.NewQuantity != 3 {
		t.Errorf("update transaction = %+v", tx)
	}

	// update may zero the stock; add/dispatch may not move by zero
	if _, err := f.transactions.CreateTransaction(txRequest(p, "update", 0), f.admin); err != nil {
		t.Errorf("update to zero: %v", err)
	}
	var ve *service.ValidationError
	if _, err := f.transactions.CreateTransaction(txRequest(p, "add", 0), f.admin); !errors.As(err, &ve) {
		t.Errorf("add zero: err = %v, want ValidationError", err)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "Corn Seeds", 10)

	tests := []struct {
		name string
		req  *service.CreateTransactionRequest
	}{
		{"missing product", &service.CreateTransactionRequest{Type: "add", Quantity: intPtr(1)}},
		{"bad product id", &service.CreateTransactionRequest{ProductID: "nope", Type: "add", Quantity: intPtr(1)}},
		{"delete type", txRequest(p, "delete", 1)},
		{"unknown type", txRequest(p, "steal", 1)},
		{"missing quantity", &service.CreateTransactionRequest{ProductID: p.ID.String(), Type: "add"}},
		{"negative quantity", txRequest(p, "dispatch", -5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.transactions.CreateTransaction(tt.req, f.admin)
			var ve *service.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
	if got := f.quantityOf(t, p); got != 10 {
		t.Errorf("quantity = %d, want 10", got)
	}
}

func TestTransactionOnUnknownProduct(t *testing.T) {
	f := newFixture(t)

	req := &service.CreateTransactionRequest{ProductID: uuid.NewString(), Type: "add", Quantity: intPtr(1)}
	_, err := f.transactions.CreateTransaction(req, f.admin)
	if !errors.Is(err, service.ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
	if err.Error() != "Product not found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestConcurrentDispatchNeverOversells(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "Corn Seeds", 10)

	const workers = 20
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.transactions.CreateTransaction(txRequest(p, "dispatch", 1), f.admin)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, service.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 10 || rejected != 10 {
		t.Errorf("ok=%d rejected=%d, want 10/10", ok, rejected)
	}
	if got := f.quantityOf(t, p); got != 0 {
		t.Errorf("quantity = %d, want 0", got)
	}
}

func TestGetTransactionNotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.transactions.GetTransaction(uuid.New()); !errors.Is(err, service.ErrTransactionNotFound) {
		t.Fatalf("err = %v", err)
	}
}
