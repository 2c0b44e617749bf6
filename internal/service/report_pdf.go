package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"agritrack-api/internal/model"
	"agritrack-api/internal/pdf"

	"github.com/google/uuid"
)

// RenderReportPDF lays out the stored snapshot of a report.
func (s *reportService) RenderReportPDF(id uuid.UUID) (*ExportFile, error) {
	view, err := s.GetReport(id, false)
	if err != nil {
		return nil, err
	}

	var doc pdf.Document
	switch view.Type {
	case model.ReportInventory:
		var r InventoryReport
		if err := json.Unmarshal(view.Data, &r); err != nil {
			return nil, err
		}
		doc = inventoryDocument(&r, view.GeneratedByName)
	case model.ReportTransaction:
		var r TransactionReport
		if err := json.Unmarshal(view.Data, &r); err != nil {
			return nil, err
		}
		doc = transactionDocument(&r, view.GeneratedByName)
	default:
		return nil, fmt.Errorf("unknown report type %q", view.Type)
	}

	data, err := pdf.Render(doc)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s_report_%s.pdf", view.Type, view.GeneratedAt.Format("20060102_150405")),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func subtitle(generatedAt string, by string) string {
	if by == "" {
		return "Generated " + generatedAt
	}
	return fmt.Sprintf("Generated %s by %s", generatedAt, by)
}

func itoa(n int) string { return strconv.Itoa(n) }

func groupRows(groups []GroupTotal) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.Name, itoa(g.Count), itoa(g.Quantity)})
	}
	return rows
}

func productRows(lines []ProductLine) [][]string {
	rows := make([][]string, 0, len(lines))
	for _, p := range lines {
		rows = append(rows, []string{p.Name, p.Category, p.StorageArea, itoa(p.Quantity), p.Unit})
	}
	return rows
}

func inventoryDocument(r *InventoryReport, by string) pdf.Document {
	productHeaders := []string{"Name", "Category", "Storage Area", "Quantity", "Unit"}
	productWidths := []float64{60, 40, 45, 25, 20}
	return pdf.Document{
		Title:    "AgriTrack Inventory Report",
		Subtitle: subtitle(r.GeneratedAt.Format("Jan 2, 2006 15:04"), by),
		Summary: []pdf.KeyValue{
			{Key: "Total products", Value: itoa(r.Summary.TotalProducts)},
			{Key: "Total quantity", Value: itoa(r.Summary.TotalQuantity)},
			{Key: "Low stock (< 10)", Value: itoa(r.Summary.LowStockCount)},
			{Key: "Out of stock", Value: itoa(r.Summary.OutOfStockCount)},
			{Key: "Categories", Value: itoa(r.Summary.CategoryCount)},
			{Key: "Storage areas", Value: itoa(r.Summary.StorageAreaCount)},
		},
		Tables: []pdf.Table{
			{Title: "By Category", Headers: []string{"Category", "Products", "Quantity"}, Rows: groupRows(r.ByCategory)},
			{Title: "By Storage Area", Headers: []string{"Storage Area", "Products", "Quantity"}, Rows: groupRows(r.ByStorageArea)},
			{Title: "Low Stock", Headers: productHeaders, Widths: productWidths, Rows: productRows(r.LowStock)},
			{Title: "Products", Headers: productHeaders, Widths: productWidths, Rows: productRows(r.Products)},
		},
	}
}

func transactionDocument(r *TransactionReport, by string) pdf.Document {
	txRows := make([][]string, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		txRows = append(txRows, []string{
			t.Timestamp.Local().Format("2006-01-02 15:04"),
			string(t.Type),
			t.ProductName,
			itoa(t.Quantity),
			fmt.Sprintf("%d -> %d", t.PreviousQuantity, t.NewQuantity),
			t.UserName,
		})
	}
	dayRows := make([][]string, 0, len(r.ByDay))
	for _, d := range r.ByDay {
		dayRows = append(dayRows, []string{d.Date, itoa(d.Count), itoa(d.Added), itoa(d.Dispatched), itoa(d.Updated), itoa(d.Deleted)})
	}

	return pdf.Document{
		Title:    "AgriTrack Transaction Report",
		Subtitle: subtitle(r.GeneratedAt.Format("Jan 2, 2006 15:04"), by),
		Summary: []pdf.KeyValue{
			{Key: "Transactions", Value: itoa(r.Summary.TotalTransactions)},
			{Key: "Added", Value: itoa(r.Summary.TotalAdded)},
			{Key: "Dispatched", Value: itoa(r.Summary.TotalDispatched)},
			{Key: "Updated", Value: itoa(r.Summary.TotalUpdated)},
			{Key: "Deleted", Value: itoa(r.Summary.TotalDeleted)},
			{Key: "Products involved", Value: itoa(r.Summary.UniqueProducts)},
			{Key: "Users involved", Value: itoa(r.Summary.UniqueUsers)},
		},
		Tables: []pdf.Table{
			{Title: "By Type", Headers: []string{"Type", "Count", "Quantity"}, Rows: groupRows(r.ByType)},
			{Title: "By Day", Headers: []string{"Date", "Count", "Added", "Dispatched", "Updated", "Deleted"}, Rows: dayRows},
			{Title: "By User", Headers: []string{"User", "Count", "Quantity"}, Rows: groupRows(r.ByUser)},
			{
				Title:   "Transactions",
				Headers: []string{"Time", "Type", "Product", "Qty", "Stock", "User"},
				Widths:  []float64{32, 20, 50, 16, 30, 42},
				Rows:    txRows,
			},
		},
	}
}
