// Package testutil provides an in-memory database and fakes for tests.
package testutil

import (
	"fmt"
	"sync"
	"testing"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/ws"
	"agritrack-api/pkg/database"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with every table
// migrated. One connection is kept open so the database lives as long as
// the test; callers must not use the root handle inside a transaction.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	cfg := database.GormConfig(false)
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given role and password "secret123".
func CreateUser(t *testing.T, db *gorm.DB, name, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{FullName: name, Email: email, Role: role}
	if err := u.SetPassword("secret123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateProduct inserts a product directly, without a transaction record.
func CreateProduct(t *testing.T, db *gorm.DB, name, category string, qty int, area string) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Category: category, Quantity: qty, StorageArea: area}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

// Recorder collects activity log entries in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []model.ActivityLog
}

func (r *Recorder) Record(entry model.ActivityLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *Recorder) Entries() []model.ActivityLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ActivityLog, len(r.entries))
	copy(out, r.entries)
	return out
}

// Actions lists the recorded actions in order.
func (r *Recorder) Actions() []string {
	entries := r.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

// Notifier collects published events.
type Notifier struct {
	mu     sync.Mutex
	events []ws.Event
}

func (n *Notifier) Publish(event ws.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *Notifier) Events() []ws.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]ws.Event, len(n.events))
	copy(out, n.events)
	return out
}
