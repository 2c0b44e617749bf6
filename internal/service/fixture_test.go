package service_test

import (
	"testing"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"
	"agritrack-api/internal/storage"
	"agritrack-api/internal/testutil"

	"gorm.io/gorm"
)

type fixture struct {
	db           *gorm.DB
	recorder     *testutil.Recorder
	notifier     *testutil.Notifier
	imageDir     string
	products     service.ProductService
	transactions service.TransactionService
	admin        service.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	imageDir := t.TempDir()
	images, err := storage.NewLocalImageStore(imageDir, "/uploads")
	if err != nil {
		t.Fatalf("image store: %v", err)
	}

	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	recorder := &testutil.Recorder{}
	notifier := &testutil.Notifier{}

	user := testutil.CreateUser(t, db, "Admin User", "admin@agritrack.test", model.RoleAdmin)

	return &fixture{
		db:           db,
		recorder:     recorder,
		notifier:     notifier,
		imageDir:     imageDir,
		products:     service.NewProductService(db, productRepo, txRepo, images, recorder, notifier),
		transactions: service.NewTransactionService(db, productRepo, txRepo, recorder, notifier),
		admin:        service.Actor{ID: user.ID, Email: user.Email, Role: user.Role, IP: "127.0.0.1"},
	}
}

func intPtr(n int) *int { return &n }

func productInput(name string, qty int) *service.ProductInput {
	return &service.ProductInput{
		Name:        name,
		Category:    "Seeds",
		Quantity:    intPtr(qty),
		StorageArea: "Warehouse A",
	}
}

func (f *fixture) mustCreate(t *testing.T, name string, qty int) *model.Product {
	t.Helper()
	p, err := f.products.CreateProduct(productInput(name, qty), nil, f.admin)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return p
}

func (f *fixture) quantityOf(t *testing.T, p *model.Product) int {
	t.Helper()
	got, err := f.products.GetProduct(p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	return got.Quantity
}

func (f *fixture) transactionsFor(t *testing.T, p *model.Product) []model.Transaction {
	t.Helper()
	txs, err := f.transactions.GetTransactions(repository.TransactionFilter{ProductID: &p.ID})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	return txs
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
