package service_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"
)

func TestImportProductsCSV(t *testing.T) {
	f := newFixture(t)
	existing := f.mustCreate(t, "Corn Seeds", 10)

	csv := strings.Join([]string{
		"Name,Category,Quantity,storage_area,Unit",
		"Rice Seeds,Seeds,40,Warehouse A,kg",
		"Corn Seeds,Seeds,5,Warehouse A,",
		"Urea,,10,Warehouse B,",
		"Potash,Fertilizers,-3,Warehouse B,",
		"Lime,Fertilizers,lots,Warehouse B,",
		",,,,",
		"Complete,Fertilizers,12.0,Warehouse B,bag",
	}, "\n")

	res, err := f.products.ImportProducts("stock.csv", strings.NewReader(csv), f.admin)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Added != 2 || res.Updated != 1 {
		t.Errorf("added=%d updated=%d, want 2/1", res.Added, res.Updated)
	}
	if len(res.Errors) != 3 {
		t.Fatalf("errors = %+v, want 3", res.Errors)
	}
	wantRows := []int{4, 5, 6}
	for i, e := range res.Errors {
		if e.Row != wantRows[i] {
			t.Errorf("error %d row = %d, want %d", i, e.Row, wantRows[i])
		}
	}
	if !strings.Contains(res.Errors[0].Message, "category") {
		t.Errorf("missing-field message = %q", res.Errors[0].Message)
	}

	if got := f.quantityOf(t, existing); got != 15 {
		t.Errorf("existing quantity = %d, want 15", got)
	}
	txs := f.transactionsFor(t, existing)
	if len(txs) != 2 || txs[0].Type != model.TxAdd || txs[0].PreviousQuantity != 10 || txs[0].NewQuantity != 15 {
		t.Errorf("import transaction = %+v", txs)
	}

	all, _ := f.products.GetProducts(repository.ProductFilter{})
	if len(all) != 3 {
		t.Errorf("products = %d, want 3", len(all))
	}
	for _, p := range all {
		if p.Name == "Urea" || p.Name == "Potash" || p.Name == "Lime" {
			t.Errorf("invalid row imported: %s", p.Name)
		}
	}

	actions := f.recorder.Actions()
	if actions[len(actions)-1] != model.ActionImportProducts {
		t.Errorf("last audit action = %s", actions[len(actions)-1])
	}
}

func TestImportSameNameTwiceInOneFile(t *testing.T) {
	f := newFixture(t)
	csv := "Name,Category,Quantity,Storage Area\nRice,Seeds,4,A\nRice,Seeds,6,A\n"

	res, err := f.products.ImportProducts("stock.csv", strings.NewReader(csv), f.admin)
	if err != nil {
		t.Fatal(err)
	}
	if res.Added != 1 || res.Updated != 1 {
		t.Errorf("added=%d updated=%d", res.Added, res.Updated)
	}
	all, _ := f.products.GetProducts(repository.ProductFilter{})
	if len(all) != 1 || all[0].Quantity != 10 {
		t.Errorf("products = %+v", all)
	}
}

func TestImportRejectsBadFiles(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		filename string
		body     string
	}{
		{"unsupported extension", "stock.txt", "Name,Category,Quantity,Storage Area\n"},
		{"missing columns", "stock.csv", "Name,Quantity\nRice,4\n"},
		{"empty file", "stock.csv", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.products.ImportProducts(tt.filename, strings.NewReader(tt.body), f.admin)
			var ve *service.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []string{"csv", "xlsx"} {
		t.Run(format, func(t *testing.T) {
			src := newFixture(t)
			src.mustCreate(t, "Corn Seeds", 100)
			in := productInput("Urea", 7)
			in.Category = "Fertilizers"
			in.StorageArea = "Warehouse B"
			if _, err := src.products.CreateProduct(in, nil, src.admin); err != nil {
				t.Fatal(err)
			}

			file, err := src.products.ExportProducts(format, src.admin)
			if err != nil {
				t.Fatalf("export: %v", err)
			}
			if !strings.HasSuffix(file.Filename, "."+format) {
				t.Errorf("filename = %q", file.Filename)
			}

			dst := newFixture(t)
			res, err := dst.products.ImportProducts(file.Filename, bytes.NewReader(file.Data), dst.admin)
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			if res.Added != 2 || len(res.Errors) != 0 {
				t.Fatalf("result = %+v", res)
			}

			want, _ := src.products.GetProducts(repository.ProductFilter{})
			got, _ := dst.products.GetProducts(repository.ProductFilter{})
			if len(got) != len(want) {
				t.Fatalf("got %d products, want %d", len(got), len(want))
			}
			for i := range want {
				w, g := want[i], got[i]
				if w.Name != g.Name || w.Category != g.Category || w.Quantity != g.Quantity || w.StorageArea != g.StorageArea {
					t.Errorf("row %d: got %+v, want %+v", i, g, w)
				}
			}
		})
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	f := newFixture(t)
	_, err := f.products.ExportProducts("pdf", f.admin)
	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}
