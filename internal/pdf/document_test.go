package pdf

import (
	"bytes"
	"fmt"
	"testing"
)

func TestRender(t *testing.T) {
	rows := make([][]string, 80)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("Product %d", i), "Seeds", fmt.Sprint(i)}
	}
	out, err := Render(Document{
		Title:    "Inventory Report",
		Subtitle: "Generated today",
		Summary:  []KeyValue{{"Total products", "80"}},
		Tables: []Table{
			{Title: "Products", Headers: []string{"Name", "Category", "Quantity"}, Rows: rows},
			{Title: "Empty", Headers: []string{"A"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("not a pdf: %q", out[:8])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 50); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	long := "a very long product name that will not fit"
	if got := truncate(long, 20); len(got) >= len(long) {
		t.Errorf("truncate did not shorten: %q", got)
	}
}
