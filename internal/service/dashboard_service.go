package service

import (
	"time"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
)

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetStockMovement(days int) ([]StockMovementData, error)
}

type DashboardStats struct {
	TotalProducts      int64                      `json:"totalProducts"`
	TotalStock         int64                      `json:"totalStock"`
	TotalDispatched    int64                      `json:"totalDispatched"`
	LowStockCount      int64                      `json:"lowStockCount"`
	ProductsByCategory []repository.CategoryCount `json:"productsByCategory"`
	RecentTransactions []model.Transaction        `json:"recentTransactions"`
}

// StockMovementData is one day of the movement chart.
type StockMovementData struct {
	Date       string `json:"date"`
	Added      int    `json:"added"`
	Dispatched int    `json:"dispatched"`
}

const recentTransactionLimit = 10

type dashboardService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	now             func() time.Time
}

func NewDashboardService(productRepo repository.ProductRepository, transactionRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{productRepo: productRepo, transactionRepo: transactionRepo, now: time.Now}
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	byCategory, err := s.productRepo.CountByCategory()
	if err != nil {
		return nil, err
	}
	stats.ProductsByCategory = byCategory
	for _, c := range byCategory {
		stats.TotalProducts += c.Count
	}

	if stats.TotalStock, err = s.productRepo.TotalStock(); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.productRepo.CountBelow(model.LowStockThreshold); err != nil {
		return nil, err
	}
	if stats.TotalDispatched, err = s.transactionRepo.SumQuantityByType(model.TxDispatch); err != nil {
		return nil, err
	}
	if stats.RecentTransactions, err = s.transactionRepo.FindRecent(recentTransactionLimit); err != nil {
		return nil, err
	}

	return &stats, nil
}

// GetStockMovement buckets add and dispatch quantities per day over the
// last `days` days, today included.
func (s *dashboardService) GetStockMovement(days int) ([]StockMovementData, error) {
	if days <= 0 {
		days = 7
	}
	now := s.now()
	start := startOfDay(now).AddDate(0, 0, -(days - 1))

	txs, err := s.transactionRepo.FindAll(repository.TransactionFilter{From: &start})
	if err != nil {
		return nil, err
	}

	data := make([]StockMovementData, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format(dateLayout)
		data[i].Date = day
		index[day] = i
	}
	for _, t := range txs {
		i, ok := index[t.Timestamp.In(now.Location()).Format(dateLayout)]
		if !ok {
			continue
		}
		switch t.Type {
		case model.TxAdd:
			data[i].Added += t.Quantity
		case model.TxDispatch:
			data[i].Dispatched += t.Quantity
		}
	}
	return data, nil
}
