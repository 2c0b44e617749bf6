package audit_test

import (
	"testing"

	"agritrack-api/internal/audit"
	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/testutil"
	"agritrack-api/pkg/logger"
)

func TestLoggerDropsWhenQueueFull(t *testing.T) {
	repo := repository.NewActivityLogRepo(testutil.NewDB(t))
	l := audit.NewLogger(repo, logger.NewNop(), 1)

	// not started yet, so the second entry has nowhere to go
	l.Record(model.ActivityLog{Action: model.ActionLogin, Resource: "user"})
	l.Record(model.ActivityLog{Action: model.ActionLogin, Resource: "user"})
	if got := l.Stats().Dropped; got != 1 {
		t.Fatalf("dropped = %d, want 1", got)
	}

	l.Start()
	l.Close()
	if got := l.Stats().Written; got != 1 {
		t.Errorf("written = %d, want 1", got)
	}

	logs, err := repo.FindRecent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].Status != model.ActivitySuccess {
		t.Errorf("stored = %+v", logs)
	}
}

func TestLoggerRecordAfterClose(t *testing.T) {
	repo := repository.NewActivityLogRepo(testutil.NewDB(t))
	l := audit.NewLogger(repo, logger.NewNop(), 4)
	l.Start()
	l.Close()
	l.Close()

	l.Record(model.ActivityLog{Action: model.ActionLogin})
	if s := l.Stats(); s.Dropped != 1 || s.Written != 0 {
		t.Errorf("stats = %+v", s)
	}
}
