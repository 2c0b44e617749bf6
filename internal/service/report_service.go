package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReportService interface {
	GenerateInventoryReport(filter InventoryReportFilter, actor Actor) (*InventoryReport, error)
	GenerateTransactionReport(filter TransactionReportFilter, actor Actor) (*TransactionReport, error)
	GetFilterOptions() (*FilterOptions, error)
	ListReports(reportType string, limit int) ([]model.Report, error)
	GetReport(id uuid.UUID, replay bool) (*ReportView, error)
	RenderReportPDF(id uuid.UUID) (*ExportFile, error)
}

type reportService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	reportRepo      repository.ReportRepository
	categoryRepo    repository.ReferenceRepository[model.Category]
	storageAreaRepo repository.ReferenceRepository[model.StorageArea]
	now             func() time.Time
	sideEffects
}

type ReportDeps struct {
	Products     repository.ProductRepository
	Transactions repository.TransactionRepository
	Users        repository.UserRepository
	Reports      repository.ReportRepository
	Categories   repository.ReferenceRepository[model.Category]
	StorageAreas repository.ReferenceRepository[model.StorageArea]
}

func NewReportService(deps ReportDeps, audit ActivityRecorder) ReportService {
	return &reportService{
		productRepo:     deps.Products,
		transactionRepo: deps.Transactions,
		userRepo:        deps.Users,
		reportRepo:      deps.Reports,
		categoryRepo:    deps.Categories,
		storageAreaRepo: deps.StorageAreas,
		now:             time.Now,
		sideEffects:     sideEffects{audit: audit},
	}
}

func (s *reportService) GenerateInventoryReport(filter InventoryReportFilter, actor Actor) (*InventoryReport, error) {
	report, err := s.buildInventory(filter)
	if err != nil {
		return nil, err
	}
	stored, err := s.persist(model.ReportInventory, filter, report.Summary, report, &report.ReportID, &report.GeneratedAt, actor)
	if err != nil {
		return nil, err
	}
	s.record(actor, model.ActionGenerateReport, "report", stored.ID.String(),
		fmt.Sprintf("Generated inventory report (%d products)", report.Summary.TotalProducts), model.ActivitySuccess)
	return report, nil
}

func (s *reportService) GenerateTransactionReport(filter TransactionReportFilter, actor Actor) (*TransactionReport, error) {
	report, err := s.buildTransactions(filter)
	if err != nil {
		return nil, err
	}
	stored, err := s.persist(model.ReportTransaction, filter, report.Summary, report, &report.ReportID, &report.GeneratedAt, actor)
	if err != nil {
		return nil, err
	}
	s.record(actor, model.ActionGenerateReport, "report", stored.ID.String(),
		fmt.Sprintf("Generated transaction report (%d transactions)", report.Summary.TotalTransactions), model.ActivitySuccess)
	return report, nil
}

// persist stamps the payload with its report id and generation time, then
// stores it as the frozen snapshot.
func (s *reportService) persist(rt model.ReportType, filters, summary, payload interface{},
	reportID *uuid.UUID, generatedAt *time.Time, actor Actor) (*model.Report, error) {

	report := &model.Report{
		Type:            rt,
		GeneratedAt:     *generatedAt,
		GeneratedBy:     actor.ID,
		GeneratedByName: actor.Email,
	}
	report.ID = uuid.New()
	report.CreatedBy = actor.Ref()
	report.UpdatedBy = actor.Ref()
	*reportID = report.ID

	var err error
	if report.Filters, err = toJSON(filters); err != nil {
		return nil, err
	}
	if report.Summary, err = toJSON(summary); err != nil {
		return nil, err
	}
	if report.Snapshot, err = toJSON(payload); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}

func toJSON(v interface{}) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func (s *reportService) buildInventory(filter InventoryReportFilter) (*InventoryReport, error) {
	from, to, err := parseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(repository.ProductFilter{
		Category:    filter.Category,
		StorageArea: filter.StorageArea,
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		return nil, err
	}

	report := &InventoryReport{
		Type:        model.ReportInventory,
		GeneratedAt: s.now(),
		Filters:     filter,
		LowStock:    []ProductLine{},
		OutOfStock:  []ProductLine{},
		Products:    make([]ProductLine, 0, len(products)),
	}
	byCategory := newGrouper()
	byArea := newGrouper()
	for i := range products {
		p := &products[i]
		line := ProductLine{ID: p.ID, Name: p.Name, Category: p.Category, StorageArea: p.StorageArea, Quantity: p.Quantity, Unit: p.Unit}
		report.Products = append(report.Products, line)
		report.Summary.TotalQuantity += p.Quantity
		if p.IsLowStock() {
			report.LowStock = append(report.LowStock, line)
		}
		if p.IsOutOfStock() {
			report.OutOfStock = append(report.OutOfStock, line)
		}
		byCategory.add(p.Category, p.Quantity)
		byArea.add(p.StorageArea, p.Quantity)
	}
	report.ByCategory = byCategory.byName()
	report.ByStorageArea = byArea.byName()
	report.Summary.TotalProducts = len(products)
	report.Summary.LowStockCount = len(report.LowStock)
	report.Summary.OutOfStockCount = len(report.OutOfStock)
	report.Summary.CategoryCount = len(report.ByCategory)
	report.Summary.StorageAreaCount = len(report.ByStorageArea)
	return report, nil
}

func (s *reportService) buildTransactions(filter TransactionReportFilter) (*TransactionReport, error) {
	if err := validateRequest(&filter); err != nil {
		return nil, err
	}
	from, to, err := parseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	q := repository.TransactionFilter{Type: model.TransactionType(filter.Type), From: from, To: to}
	if filter.UserID != "" {
		id := uuid.MustParse(filter.UserID)
		q.UserID = &id
	}
	if filter.ProductID != "" {
		id := uuid.MustParse(filter.ProductID)
		q.ProductID = &id
	}
	txs, err := s.transactionRepo.FindAll(q)
	if err != nil {
		return nil, err
	}

	report := &TransactionReport{
		Type:         model.ReportTransaction,
		GeneratedAt:  s.now(),
		Filters:      filter,
		Transactions: make([]TransactionLine, 0, len(txs)),
	}
	byType := newGrouper()
	byUser := newGrouper()
	byProduct := newGrouper()
	days := map[string]*DayTotal{}
	for i := range txs {
		t := &txs[i]
		// Rows whose product or user record is gone are left out.
		if t.Product == nil || t.User == nil {
			continue
		}
		report.Transactions = append(report.Transactions, TransactionLine{
			ID:               t.ID,
			Timestamp:        t.Timestamp,
			Type:             t.Type,
			Quantity:         t.Quantity,
			PreviousQuantity: t.PreviousQuantity,
			NewQuantity:      t.NewQuantity,
			ProductID:        t.ProductID,
			ProductName:      t.Product.Name,
			UserID:           t.UserID,
			UserName:         t.User.FullName,
			Remarks:          t.Remarks,
		})
		byType.add(string(t.Type), t.Quantity)
		byUser.add(t.User.FullName, t.Quantity)
		byProduct.add(t.Product.Name, t.Quantity)

		key := t.Timestamp.Local().Format(dateLayout)
		day, ok := days[key]
		if !ok {
			day = &DayTotal{Date: key}
			days[key] = day
		}
		day.Count++
		switch t.Type {
		case model.TxAdd:
			day.Added += t.Quantity
			report.Summary.TotalAdded += t.Quantity
		case model.TxDispatch:
			day.Dispatched += t.Quantity
			report.Summary.TotalDispatched += t.Quantity
		case model.TxUpdate:
			day.Updated += t.Quantity
			report.Summary.TotalUpdated += t.Quantity
		case model.TxDelete:
			day.Deleted += t.Quantity
			report.Summary.TotalDeleted += t.Quantity
		}
	}

	report.ByType = byType.byName()
	report.ByUser = byUser.byCount()
	report.ByProduct = byProduct.byCount()
	report.ByDay = make([]DayTotal, 0, len(days))
	for _, d := range days {
		report.ByDay = append(report.ByDay, *d)
	}
	sort.Slice(report.ByDay, func(i, j int) bool { return report.ByDay[i].Date < report.ByDay[j].Date })
	report.Summary.TotalTransactions = len(report.Transactions)
	report.Summary.UniqueProducts = len(report.ByProduct)
	report.Summary.UniqueUsers = len(report.ByUser)
	return report, nil
}

func (s *reportService) GetFilterOptions() (*FilterOptions, error) {
	opts := &FilterOptions{TransactionTypes: model.TransactionTypes}

	productCategories, err := s.productRepo.DistinctCategories()
	if err != nil {
		return nil, err
	}
	refCategories, err := s.categoryRepo.Names()
	if err != nil {
		return nil, err
	}
	opts.Categories = mergeNames(productCategories, refCategories)

	productAreas, err := s.productRepo.DistinctStorageAreas()
	if err != nil {
		return nil, err
	}
	refAreas, err := s.storageAreaRepo.Names()
	if err != nil {
		return nil, err
	}
	opts.StorageAreas = mergeNames(productAreas, refAreas)

	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	opts.Users = make([]UserOption, 0, len(users))
	for _, u := range users {
		opts.Users = append(opts.Users, UserOption{ID: u.ID, FullName: u.FullName})
	}

	products, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	opts.Products = make([]NamedOption, 0, len(products))
	for _, p := range products {
		opts.Products = append(opts.Products, NamedOption{ID: p.ID, Name: p.Name})
	}
	return opts, nil
}

func (s *reportService) ListReports(reportType string, limit int) ([]model.Report, error) {
	if reportType != "" && reportType != string(model.ReportInventory) && reportType != string(model.ReportTransaction) {
		return nil, validationErrorf("type must be one of: inventory, transaction")
	}
	return s.reportRepo.FindAll(model.ReportType(reportType), limit)
}

// GetReport returns the snapshot frozen at generation time, or with replay
// set, the same filters evaluated against current data. Replays are not
// persisted.
func (s *reportService) GetReport(id uuid.UUID, replay bool) (*ReportView, error) {
	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	view := &ReportView{Report: *report, Data: json.RawMessage(report.Snapshot)}
	if !replay {
		return view, nil
	}

	var payload interface{}
	switch report.Type {
	case model.ReportInventory:
		var filter InventoryReportFilter
		if err := json.Unmarshal(report.Filters, &filter); err != nil {
			return nil, err
		}
		r, err := s.buildInventory(filter)
		if err != nil {
			return nil, err
		}
		r.ReportID = report.ID
		payload = r
	case model.ReportTransaction:
		var filter TransactionReportFilter
		if err := json.Unmarshal(report.Filters, &filter); err != nil {
			return nil, err
		}
		r, err := s.buildTransactions(filter)
		if err != nil {
			return nil, err
		}
		r.ReportID = report.ID
		payload = r
	default:
		return nil, fmt.Errorf("unknown report type %q", report.Type)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	view.Data = data
	view.Replayed = true
	return view, nil
}

// grouper accumulates GroupTotals keyed by name.
type grouper struct {
	totals map[string]*GroupTotal
}

func newGrouper() *grouper {
	return &grouper{totals: map[string]*GroupTotal{}}
}

func (g *grouper) add(name string, qty int) {
	t, ok := g.totals[name]
	if !ok {
		t = &GroupTotal{Name: name}
		g.totals[name] = t
	}
	t.Count++
	t.Quantity += qty
}

func (g *grouper) list() []GroupTotal {
	out := make([]GroupTotal, 0, len(g.totals))
	for _, t := range g.totals {
		out = append(out, *t)
	}
	return out
}

func (g *grouper) byName() []GroupTotal {
	out := g.list()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (g *grouper) byCount() []GroupTotal {
	out := g.list()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func mergeNames(lists ...[]string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, list := range lists {
		for _, n := range list {
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
