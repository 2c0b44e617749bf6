package service

import (
	"strings"
	"time"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"

	"github.com/google/uuid"
)

type ActivityLogService interface {
	List(q ActivityLogQuery) (*ActivityLogPage, error)
	Stats(days int) (*ActivityStats, error)
	Recent(limit int) ([]model.ActivityLog, error)
}

type ActivityLogQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Action    string `query:"action"`
	Status    string `query:"status"`
	Resource  string `query:"resource"`
	UserID    string `query:"userId"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Search    string `query:"search"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ActivityLogPage struct {
	Logs       []model.ActivityLog `json:"logs"`
	Pagination Pagination          `json:"pagination"`
}

type ActivityStats struct {
	Days       int                   `json:"days"`
	Since      time.Time             `json:"since"`
	Total      int64                 `json:"total"`
	ByAction   []repository.KeyCount `json:"byAction"`
	ByUser     []repository.KeyCount `json:"byUser"`
	ByStatus   []repository.KeyCount `json:"byStatus"`
	ByResource []repository.KeyCount `json:"byResource"`
	ByDay      []repository.KeyCount `json:"byDay"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 100000
	maxStatsDays    = 90
)

type activityLogService struct {
	repo repository.ActivityLogRepository
	now  func() time.Time
}

func NewActivityLogService(repo repository.ActivityLogRepository) ActivityLogService {
	return &activityLogService{repo: repo, now: time.Now}
}

func (s *activityLogService) List(q ActivityLogQuery) (*ActivityLogPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > maxPage {
		q.Page = maxPage
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}

	from, to, err := parseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	filter := repository.ActivityLogFilter{
		Action:   strings.ToUpper(strings.TrimSpace(q.Action)),
		Status:   strings.TrimSpace(q.Status),
		Resource: strings.TrimSpace(q.Resource),
		From:     from,
		To:       to,
		Search:   strings.TrimSpace(q.Search),
	}
	if q.UserID != "" {
		id, err := uuid.Parse(q.UserID)
		if err != nil {
			return nil, validationErrorf("Invalid userId")
		}
		filter.UserID = &id
	}

	logs, total, err := s.repo.FindPage(filter, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []model.ActivityLog{}
	}
	return &ActivityLogPage{
		Logs: logs,
		Pagination: Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
		},
	}, nil
}

func (s *activityLogService) Stats(days int) (*ActivityStats, error) {
	if days <= 0 {
		days = 7
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}
	now := s.now()
	since := startOfDay(now).AddDate(0, 0, -(days - 1))
	stats := &ActivityStats{Days: days, Since: since}

	var err error
	if stats.ByAction, err = s.repo.CountBy("action", since); err != nil {
		return nil, err
	}
	if stats.ByUser, err = s.repo.CountBy("user_name", since); err != nil {
		return nil, err
	}
	if stats.ByStatus, err = s.repo.CountBy("status", since); err != nil {
		return nil, err
	}
	if stats.ByResource, err = s.repo.CountBy("resource", since); err != nil {
		return nil, err
	}
	for _, kc := range stats.ByStatus {
		stats.Total += kc.Count
	}

	// Day buckets are computed here so they follow the server's time zone
	// on every database.
	stamps, err := s.repo.TimestampsSince(since)
	if err != nil {
		return nil, err
	}
	stats.ByDay = make([]repository.KeyCount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format(dateLayout)
		stats.ByDay[i].Key = day
		index[day] = i
	}
	for _, ts := range stamps {
		if i, ok := index[ts.In(now.Location()).Format(dateLayout)]; ok {
			stats.ByDay[i].Count++
		}
	}
	return stats, nil
}

func (s *activityLogService) Recent(limit int) ([]model.ActivityLog, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.repo.FindRecent(limit)
}
