package service

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"agritrack-api/internal/metrics"
	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/sheet"
	"agritrack-api/internal/ws"

	"gorm.io/gorm"
)

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Added   int              `json:"added"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportHeader is the column order of product exports. Imports accept the
// same headers.
var ExportHeader = []string{"Name", "Category", "Quantity", "Storage Area", "Image URL", "Description", "Unit"}

const (
	colName        = "name"
	colCategory    = "category"
	colQuantity    = "quantity"
	colStorageArea = "storagearea"
	colImageURL    = "imageurl"
	colDescription = "description"
	colUnit        = "unit"
)

var requiredImportColumns = []string{colName, colCategory, colQuantity, colStorageArea}

var headerAliases = map[string]string{
	"productname": colName,
	"product":     colName,
	"qty":         colQuantity,
	"stock":       colQuantity,
	"storage":     colStorageArea,
	"location":    colStorageArea,
	"image":       colImageURL,
}

// normalizeHeader folds "Storage Area", "storage_area" and "StorageArea"
// to the same key.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return h
}

func (s *productService) ImportProducts(filename string, r io.Reader, actor Actor) (*ImportResult, error) {
	format, err := sheet.FormatFromFilename(filename)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	records, err := sheet.Read(format, r)
	if err != nil {
		return nil, validationErrorf("Could not read %s file: %v", format, err)
	}
	if len(records) == 0 {
		return nil, validationErrorf("The uploaded file is empty")
	}

	columns := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		key := normalizeHeader(h)
		if _, seen := columns[key]; !seen && key != "" {
			columns[key] = i
		}
	}
	var missing []string
	for _, c := range requiredImportColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, validationErrorf("Missing required columns: %s", strings.Join(missing, ", "))
	}

	result := &ImportResult{Errors: []ImportRowError{}}
	for i, record := range records[1:] {
		rowNum := i + 2 // header is row 1
		get := func(key string) string {
			idx, ok := columns[key]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		if isBlankRow(record) {
			continue
		}

		row := importRow{
			Name:        get(colName),
			Category:    get(colCategory),
			StorageArea: get(colStorageArea),
			ImageURL:    get(colImageURL),
			Description: get(colDescription),
			Unit:        get(colUnit),
		}
		if msg := row.parseQuantity(get(colQuantity)); msg != "" {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: msg})
			continue
		}

		updated, err := s.importRow(row, actor)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if updated {
			result.Updated++
		} else {
			result.Added++
		}
	}

	status := model.ActivitySuccess
	if len(result.Errors) > 0 && result.Added+result.Updated == 0 {
		status = model.ActivityFailed
	}
	s.record(actor, model.ActionImportProducts, "product", "",
		fmt.Sprintf("Imported %s: %d added, %d updated, %d errors", filename, result.Added, result.Updated, len(result.Errors)), status)
	if result.Added+result.Updated > 0 {
		s.publish(ws.Event{Type: "product", Action: "import", Data: result, User: actor.eventUser(),
			Message: fmt.Sprintf("%d products imported", result.Added+result.Updated)})
	}

	return result, nil
}

type importRow struct {
	Name        string
	Category    string
	Quantity    int
	StorageArea string
	ImageURL    string
	Description string
	Unit        string
}

// parseQuantity validates the row and returns a message when it is unusable.
func (r *importRow) parseQuantity(raw string) string {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.Category == "" {
		missing = append(missing, "category")
	}
	if raw == "" {
		missing = append(missing, "quantity")
	}
	if r.StorageArea == "" {
		missing = append(missing, "storageArea")
	}
	if len(missing) > 0 {
		return "Missing required fields: " + strings.Join(missing, ", ")
	}

	// Spreadsheets often hand back "25.0" for whole numbers.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return fmt.Sprintf("Invalid quantity %q", raw)
	}
	if f < 0 {
		return "Quantity cannot be negative"
	}
	r.Quantity = int(f)
	return ""
}

// importRow merges one row into the catalogue. It reports true when an
// existing product (matched by exact name) was topped up.
func (s *productService) importRow(row importRow, actor Actor) (bool, error) {
	updated := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		existing, err := products.FindByName(row.Name)
		switch {
		case err == nil:
			updated = true
			if row.Quantity == 0 {
				return nil
			}
			_, err := applyStockChange(tx, s.productRepo, s.transactionRepo, existing,
				stockChange{Type: model.TxAdd, Quantity: row.Quantity, Remarks: "Bulk import"}, actor)
			return err
		case errors.Is(err, gorm.ErrRecordNotFound):
			product := &model.Product{
				Name:        row.Name,
				Category:    row.Category,
				Quantity:    row.Quantity,
				StorageArea: row.StorageArea,
				ImageURL:    row.ImageURL,
				Description: row.Description,
				Unit:        row.Unit,
			}
			product.CreatedBy = actor.Ref()
			product.UpdatedBy = actor.Ref()
			if err := products.Create(product); err != nil {
				return err
			}
			if product.Quantity == 0 {
				return nil
			}
			initial := &model.Transaction{
				ProductID:   product.ID,
				Type:        model.TxAdd,
				Quantity:    product.Quantity,
				NewQuantity: product.Quantity,
				UserID:      actor.ID,
				Remarks:     "Bulk import",
			}
			initial.CreatedBy = actor.Ref()
			initial.UpdatedBy = actor.Ref()
			return s.transactionRepo.WithTx(tx).Create(initial)
		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}
	if row.Quantity > 0 {
		metrics.StockTransactions.WithLabelValues(string(model.TxAdd)).Inc()
	}
	return updated, nil
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func (s *productService) ExportProducts(formatName string, actor Actor) (*ExportFile, error) {
	format, err := sheet.ParseFormat(formatName)
	if err != nil {
		return nil, &ValidationError{Message: "Unsupported export format. Use csv or xlsx"}
	}

	products, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}

	table := sheet.Table{Header: ExportHeader, Rows: make([][]interface{}, 0, len(products))}
	for _, p := range products {
		table.Rows = append(table.Rows, []interface{}{
			p.Name, p.Category, p.Quantity, p.StorageArea, p.ImageURL, p.Description, p.Unit,
		})
	}

	data, err := sheet.Write(format, "Products", table)
	if err != nil {
		return nil, err
	}

	s.record(actor, model.ActionExportProducts, "product", "",
		fmt.Sprintf("Exported %d products as %s", len(products), format), model.ActivitySuccess)

	return &ExportFile{
		Filename:    fmt.Sprintf("products_%s.%s", time.Now().Format("20060102_150405"), format),
		ContentType: sheet.ContentType(format),
		Data:        data,
	}, nil
}
