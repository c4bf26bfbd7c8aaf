package memstore

import (
	"context"
	"reflect"
	"testing"

	"github.com/cognicore/onehot/pkg/onehot/store"
	"github.com/cognicore/onehot/pkg/onehot/table"
)

var _ store.Sink = (*Store)(nil)

func TestStoreWriteAndRead(t *testing.T) {
	s := New()
	tbl := table.New([]string{"Id", "student"})
	tbl.Rows = [][]string{{"1", "1"}}

	if err := s.WriteTable(context.Background(), "survey", tbl); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	got, ok := s.Table("survey")
	if !ok {
		t.Fatal("Table should be stored")
	}
	if !reflect.DeepEqual(got.Rows, tbl.Rows) {
		t.Errorf("Expected rows %v, got %v", tbl.Rows, got.Rows)
	}

	// Stored data is isolated from later mutation of the input.
	tbl.Rows[0][1] = "0"
	again, _ := s.Table("survey")
	if again.Rows[0][1] != "1" {
		t.Error("Store should keep its own copy")
	}

	if !reflect.DeepEqual(s.Names(), []string{"survey"}) {
		t.Errorf("Unexpected names %v", s.Names())
	}
}

func TestStoreMissingTable(t *testing.T) {
	if _, ok := New().Table("nope"); ok {
		t.Error("Missing table should not be found")
	}
}

func TestStoreClose(t *testing.T) {
	s := New()
	if s.Closed() {
		t.Error("New store should be open")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !s.Closed() {
		t.Error("Close should be recorded")
	}
}
