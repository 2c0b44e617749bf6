package repository

import (
	"strings"
	"time"

	"agritrack-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLogFilter struct {
	Action   string
	Status   string
	Resource string
	UserID   *uuid.UUID
	From     *time.Time
	To       *time.Time // exclusive
	Search   string
}

// KeyCount is one bucket of a grouped count.
type KeyCount struct {
	Key   string `gorm:"column:label" json:"key"`
	Count int64  `json:"count"`
}

type ActivityLogRepository interface {
	Create(entry *model.ActivityLog) error
	FindPage(filter ActivityLogFilter, offset, limit int) ([]model.ActivityLog, int64, error)
	FindRecent(limit int) ([]model.ActivityLog, error)
	CountBy(column string, since time.Time) ([]KeyCount, error)
	TimestampsSince(since time.Time) ([]time.Time, error)
}

type activityLogRepo struct {
	db *gorm.DB
}

func NewActivityLogRepo(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepo{db}
}

func (r *activityLogRepo) Create(entry *model.ActivityLog) error {
	return r.db.Create(entry).Error
}

func (f ActivityLogFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Resource != "" {
		q = q.Where("resource = ?", f.Resource)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("timestamp >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("timestamp < ?", *f.To)
	}
	if f.Search != "" {
		q = q.Where("LOWER(details) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	return q
}

func (r *activityLogRepo) FindPage(filter ActivityLogFilter, offset, limit int) ([]model.ActivityLog, int64, error) {
	var total int64
	if err := r.db.Model(&model.ActivityLog{}).Scopes(filter.apply).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.ActivityLog
	err := r.db.Scopes(filter.apply).Order("timestamp DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}

func (r *activityLogRepo) FindRecent(limit int) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog
	err := r.db.Order("timestamp DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// groupable columns accepted by CountBy
var activityGroupColumns = map[string]bool{
	"action":    true,
	"status":    true,
	"resource":  true,
	"user_name": true,
}

func (r *activityLogRepo) CountBy(column string, since time.Time) ([]KeyCount, error) {
	if !activityGroupColumns[column] {
		return nil, gorm.ErrInvalidField
	}
	var rows []KeyCount
	err := r.db.Model(&model.ActivityLog{}).
		Select(column + " AS label, COUNT(*) AS count").
		Where("timestamp >= ?", since).
		Group(column).
		Order("COUNT(*) DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *activityLogRepo) TimestampsSince(since time.Time) ([]time.Time, error) {
	var out []time.Time
	err := r.db.Model(&model.ActivityLog{}).
		Where("timestamp >= ?", since).
		Order("timestamp ASC").
		Pluck("timestamp", &out).Error
	return out, err
}
