package storage

import (
	"fmt"
	"strings"
)

// Column type classes for the vehicles table. Everything not listed here is
// plain text. The equipment flags are the tail of vehicleColumns, starting at
// "registered", so they are sliced off rather than listed twice.
var (
	vehicleFloatColumns = map[string]bool{
		"price":         true,
		"engine_volume": true,
	}
	vehicleIntColumns = map[string]bool{
		"build_year":   true,
		"mileage":      true,
		"engine_power": true,
		"horsepower":   true,
		"weight_kg":    true,
	}
	vehicleTimeColumns = map[string]bool{
		"scraped_at": true,
	}
	vehicleBoolColumns = boolColumnSet()
)

func boolColumnSet() map[string]bool {
	set := make(map[string]bool)
	tail := false
	for _, col := range vehicleColumns {
		if col == "registered" {
			tail = true
		}
		if tail {
			set[col] = true
		}
	}
	return set
}

// pgColumnType and sqliteColumnType render the storage type for one vehicles
// column in their respective dialects.
func pgColumnType(col string) string {
	switch {
	case vehicleFloatColumns[col]:
		return "DOUBLE PRECISION"
	case vehicleIntColumns[col]:
		return "INTEGER"
	case vehicleBoolColumns[col]:
		return "BOOLEAN"
	case vehicleTimeColumns[col]:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

func sqliteColumnType(col string) string {
	switch {
	case vehicleFloatColumns[col]:
		return "REAL"
	case vehicleIntColumns[col]:
		return "INTEGER"
	case vehicleBoolColumns[col]:
		return "BOOLEAN"
	case vehicleTimeColumns[col]:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// vehicleSchema builds the create-if-missing DDL for the listings, vehicles
// and runs tables. Both stores share it; typeOf supplies the dialect's column
// types. Listings deliberately have no primary key on listing_id: each
// observation of an ad is its own row.
func vehicleSchema(typeOf func(col string) string) string {
	var b strings.Builder

	b.WriteString(`
	CREATE TABLE IF NOT EXISTS listings (
		listing_id TEXT NOT NULL,
		url TEXT,
		title TEXT,
		price TEXT,
		observed_at ` + typeOf("scraped_at") + `,
		run_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS vehicles (
`)

	for i, col := range vehicleColumns {
		fmt.Fprintf(&b, "\t\t%s %s", col, typeOf(col))
		if col == "listing_id" {
			b.WriteString(" PRIMARY KEY")
		}
		if i < len(vehicleColumns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	b.WriteString(`	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at ` + typeOf("scraped_at") + `,
		completed_at ` + typeOf("scraped_at") + `,
		status TEXT,
		listings_scraped INTEGER,
		vehicles_scraped INTEGER,
		errors_count INTEGER,
		last_error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_listings_run ON listings(run_id);
	CREATE INDEX IF NOT EXISTS idx_listings_listing ON listings(listing_id, observed_at);
	CREATE INDEX IF NOT EXISTS idx_vehicles_pending_image ON vehicles(scraped_at) WHERE image_url IS NOT NULL AND image_s3_key IS NULL;
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status, started_at);
	`)

	return b.String()
}
