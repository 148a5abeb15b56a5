package db

import (
	"testing"

	"github.com/qsswgl/patrol/internal/models"
)

func TestUpsertLocationMapping(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertLocationMapping(&models.LocationMapping{
		TagID:         "04A1B2",
		LocationLabel: "Lobby",
	}); err != nil {
		t.Fatalf("UpsertLocationMapping() error = %v", err)
	}

	mapping, err := db.GetLocationMapping("04A1B2")
	if err != nil {
		t.Fatalf("GetLocationMapping() error = %v", err)
	}
	if mapping == nil {
		t.Fatal("mapping not found")
	}
	if mapping.LocationLabel != "Lobby" {
		t.Errorf("LocationLabel = %q, want %q", mapping.LocationLabel, "Lobby")
	}
	if mapping.Category != models.DefaultCategory {
		t.Errorf("Category = %q, want default %q", mapping.Category, models.DefaultCategory)
	}
}

func TestUpsertLocationMapping_RefreshesInPlace(t *testing.T) {
	db := testDB(t)

	for _, label := range []string{"Lobby", "Lobby East"} {
		if err := db.UpsertLocationMapping(&models.LocationMapping{
			TagID:         "04A1B2",
			LocationLabel: label,
		}); err != nil {
			t.Fatalf("UpsertLocationMapping(%q) error = %v", label, err)
		}
	}

	mappings, err := db.ListLocationMappings()
	if err != nil {
		t.Fatalf("ListLocationMappings() error = %v", err)
	}
	if len(mappings) != 1 {
		t.Fatalf("got %d mappings, want 1 (upsert, not append)", len(mappings))
	}
	if mappings[0].LocationLabel != "Lobby East" {
		t.Errorf("LocationLabel = %q, want refreshed value", mappings[0].LocationLabel)
	}
}

func TestGetLocationMapping_Missing(t *testing.T) {
	db := testDB(t)

	mapping, err := db.GetLocationMapping("UNSEEN")
	if err != nil {
		t.Fatalf("GetLocationMapping() error = %v", err)
	}
	if mapping != nil {
		t.Error("missing mapping should return nil, nil")
	}
}
