// Package audit writes activity log entries off the request path.
package audit

import (
	"sync"

	"agritrack-api/internal/metrics"
	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/pkg/logger"

	"go.uber.org/zap"
)

// Logger is a best-effort side channel for activity logs. Record never
// blocks and never fails the caller: a full queue drops the entry, a failed
// write is logged, and both are counted in agritrack_audit_events_total.
type Logger struct {
	repo  repository.ActivityLogRepository
	log   logger.ZapLogger
	queue chan model.ActivityLog

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	statsMu sync.Mutex
	stats   Stats
}

// Stats mirrors the Prometheus counters for callers without a registry.
type Stats struct {
	Written int64 `json:"written"`
	Failed  int64 `json:"failed"`
	Dropped int64 `json:"dropped"`
}

func NewLogger(repo repository.ActivityLogRepository, log logger.ZapLogger, queueSize int) *Logger {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Logger{
		repo:  repo,
		log:   log,
		queue: make(chan model.ActivityLog, queueSize),
	}
}

// Start launches the writer goroutine.
func (l *Logger) Start() {
	l.wg.Add(1)
	go l.run()
}

func (l *Logger) run() {
	defer l.wg.Done()
	for entry := range l.queue {
		e := entry
		if err := l.repo.Create(&e); err != nil {
			l.count(metrics.AuditFailed)
			l.log.Warn("audit: failed to write activity log",
				zap.String("action", e.Action),
				zap.String("resource", e.Resource),
				zap.Error(err))
			continue
		}
		l.count(metrics.AuditWritten)
	}
}

func (l *Logger) Record(entry model.ActivityLog) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.count(metrics.AuditDropped)
		return
	}
	select {
	case l.queue <- entry:
	default:
		l.count(metrics.AuditDropped)
		l.log.Warn("audit: queue full, activity log dropped",
			zap.String("action", entry.Action),
			zap.String("resource", entry.Resource))
	}
}

// Close stops accepting entries and waits for the queue to drain.
func (l *Logger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()
	l.wg.Wait()
}

func (l *Logger) Stats() Stats {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()
	return l.stats
}

func (l *Logger) count(outcome string) {
	metrics.AuditEvents.WithLabelValues(outcome).Inc()
	l.statsMu.Lock()
	switch outcome {
	case metrics.AuditWritten:
		l.stats.Written++
	case metrics.AuditFailed:
		l.stats.Failed++
	case metrics.AuditDropped:
		l.stats.Dropped++
	}
	l.statsMu.Unlock()
}
