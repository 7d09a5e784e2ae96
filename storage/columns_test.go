package storage

import (
	"fmt"
	"strings"
	"testing"

	"carscout/models"
)

func TestVehicleValuesMatchColumns(t *testing.T) {
	v := &models.VehicleDetail{ListingID: "1"}
	values := vehicleValues(v)
	if len(values) != len(vehicleColumns) {
		t.Fatalf("vehicleValues yields %d args for %d columns", len(values), len(vehicleColumns))
	}
}

func TestVehicleColumnsAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(vehicleColumns))
	for _, col := range vehicleColumns {
		if seen[col] {
			t.Fatalf("duplicate column %s", col)
		}
		seen[col] = true
	}
}

func TestVehicleUpsert(t *testing.T) {
	query := vehicleUpsert(func(n int) string { return fmt.Sprintf("$%d", n) })

	if !strings.HasPrefix(query, "INSERT INTO vehicles (listing_id,") {
		t.Fatalf("unexpected statement start: %.60s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (listing_id) DO UPDATE SET") {
		t.Fatal("expected conflict clause on listing_id")
	}
	if !strings.Contains(query, fmt.Sprintf("$%d", len(vehicleColumns))) {
		t.Fatal("expected one placeholder per column")
	}
	if strings.Contains(query, fmt.Sprintf("$%d", len(vehicleColumns)+1)) {
		t.Fatal("expected no extra placeholders")
	}
	if strings.Contains(query, "listing_id = excluded.listing_id") {
		t.Fatal("conflict key must not be reassigned")
	}
	if !strings.Contains(query, "image_s3_key = COALESCE(excluded.image_s3_key, vehicles.image_s3_key)") {
		t.Fatal("archived image key must survive a re-scrape")
	}
}

func TestVehicleSchemaCoversAllColumns(t *testing.T) {
	for _, typeOf := range []func(string) string{pgColumnType, sqliteColumnType} {
		schema := vehicleSchema(typeOf)
		for _, col := range vehicleColumns {
			if !strings.Contains(schema, col+" ") {
				t.Fatalf("schema missing column %s", col)
			}
		}
		if !strings.Contains(schema, "listing_id "+typeOf("listing_id")+" PRIMARY KEY") {
			t.Fatal("vehicles must key on listing_id")
		}
	}
}

func TestColumnTypeClasses(t *testing.T) {
	if pgColumnType("mileage") != "INTEGER" || sqliteColumnType("mileage") != "INTEGER" {
		t.Fatal("mileage should be integer")
	}
	if pgColumnType("price") != "DOUBLE PRECISION" || sqliteColumnType("price") != "REAL" {
		t.Fatal("price should be floating point")
	}
	if pgColumnType("oldtimer") != "BOOLEAN" {
		t.Fatal("equipment flags should be boolean")
	}
	if pgColumnType("registered_until") == "BOOLEAN" {
		t.Fatal("registered_until is a text field, not a flag")
	}
	if pgColumnType("scraped_at") != "TIMESTAMPTZ" || sqliteColumnType("scraped_at") != "DATETIME" {
		t.Fatal("scraped_at should be a timestamp")
	}
}
