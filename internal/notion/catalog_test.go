package notion

import (
	"reflect"
	"testing"

	"notion-quiz-service/internal/domain"
)

func TestParseCatalog(t *testing.T) {
	got := ParseCatalog("db1:General Knowledge, db2:History ,:missing-id,db3:")
	want := []domain.QuizInfo{
		{ID: "db1", Name: "General Knowledge"},
		{ID: "db2", Name: "History"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseCatalog = %+v, want %+v", got, want)
	}
}

func TestParseCatalogEmpty(t *testing.T) {
	if got := ParseCatalog(""); len(got) != 0 {
		t.Fatalf("expected empty catalog, got %+v", got)
	}
}
