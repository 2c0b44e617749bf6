package service_test

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"
	"agritrack-api/internal/testutil"
)

func seedLogs(t *testing.T, repo repository.ActivityLogRepository) {
	t.Helper()
	now := time.Now()
	entries := []model.ActivityLog{
		{Action: model.ActionLogin, UserName: "a@x.com", Resource: "user", Details: "User logged in", Timestamp: now.Add(-time.Minute)},
		{Action: model.ActionLogin, UserName: "b@x.com", Resource: "user", Details: "Invalid password", Status: model.ActivityFailed, Timestamp: now.Add(-2 * time.Minute)},
		{Action: model.ActionCreateProduct, UserName: "a@x.com", Resource: "product", Details: "Created product Corn Seeds", Timestamp: now.Add(-3 * time.Minute)},
		{Action: model.ActionCreateProduct, UserName: "a@x.com", Resource: "product", Details: "Created product Urea", Timestamp: now.AddDate(0, 0, -30)},
	}
	for i := 0; i < 21; i++ {
		entries = append(entries, model.ActivityLog{
			Action: model.ActionCreateTransaction, UserName: "a@x.com", Resource: "transaction",
			Details: fmt.Sprintf("dispatch %d", i), Timestamp: now.Add(-time.Duration(10+i) * time.Minute),
		})
	}
	for i := range entries {
		if err := repo.Create(&entries[i]); err != nil {
			t.Fatal(err)
		}
	}
}

func TestActivityLogListPaginatesAndFilters(t *testing.T) {
	repo := repository.NewActivityLogRepo(testutil.NewDB(t))
	seedLogs(t, repo)
	logs := service.NewActivityLogService(repo)

	page, err := logs.List(service.ActivityLogQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Logs) != 20 || page.Pagination.Total != 25 || page.Pagination.TotalPages != 2 || page.Pagination.Page != 1 {
		t.Errorf("first page = %d logs, %+v", len(page.Logs), page.Pagination)
	}
	if page.Logs[0].Action != model.ActionLogin {
		t.Errorf("newest first: got %s", page.Logs[0].Action)
	}

	second, _ := logs.List(service.ActivityLogQuery{Page: 2})
	if len(second.Logs) != 5 {
		t.Errorf("second page = %d logs, want 5", len(second.Logs))
	}

	failed, _ := logs.List(service.ActivityLogQuery{Status: "failed"})
	if failed.Pagination.Total != 1 {
		t.Errorf("failed = %d, want 1", failed.Pagination.Total)
	}
	lower, _ := logs.List(service.ActivityLogQuery{Action: "create_product"})
	if lower.Pagination.Total != 2 {
		t.Errorf("action filter = %d, want 2", lower.Pagination.Total)
	}
	search, _ := logs.List(service.ActivityLogQuery{Search: "corn"})
	if search.Pagination.Total != 1 {
		t.Errorf("search = %d, want 1", search.Pagination.Total)
	}
	capped, _ := logs.List(service.ActivityLogQuery{Limit: 1000})
	if capped.Pagination.Limit != 100 {
		t.Errorf("limit = %d, want 100", capped.Pagination.Limit)
	}

	far, err := logs.List(service.ActivityLogQuery{Page: math.MaxInt, Limit: 100})
	if err != nil {
		t.Fatalf("huge page: %v", err)
	}
	if far.Pagination.Page != 100000 || len(far.Logs) != 0 {
		t.Errorf("huge page = %+v, %d logs", far.Pagination, len(far.Logs))
	}

	_, err = logs.List(service.ActivityLogQuery{UserID: "nope"})
	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("bad userId: err = %v", err)
	}
}

func TestActivityLogStats(t *testing.T) {
	repo := repository.NewActivityLogRepo(testutil.NewDB(t))
	seedLogs(t, repo)
	logs := service.NewActivityLogService(repo)

	stats, err := logs.Stats(7)
	if err != nil {
		t.Fatal(err)
	}
	// the 30-day-old entry is outside the window
	if stats.Total != 24 {
		t.Errorf("total = %d, want 24", stats.Total)
	}
	if len(stats.ByAction) == 0 || stats.ByAction[0].Key != model.ActionCreateTransaction || stats.ByAction[0].Count != 21 {
		t.Errorf("byAction = %+v", stats.ByAction)
	}
	if len(stats.ByDay) != 7 {
		t.Fatalf("byDay = %d buckets, want 7", len(stats.ByDay))
	}
	var sum int64
	for _, d := range stats.ByDay {
		sum += d.Count
	}
	if sum != 24 {
		t.Errorf("byDay sum = %d, want 24", sum)
	}

	wide, err := logs.Stats(200000)
	if err != nil {
		t.Fatal(err)
	}
	if wide.Days != 90 || len(wide.ByDay) != 90 || wide.Total != 25 {
		t.Errorf("clamped stats: days=%d buckets=%d total=%d", wide.Days, len(wide.ByDay), wide.Total)
	}

	recent, err := logs.Recent(3)
	if err != nil || len(recent) != 3 {
		t.Fatalf("recent: %v %d", err, len(recent))
	}
}
