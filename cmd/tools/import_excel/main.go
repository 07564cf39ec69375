package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"staffing-api/internal/config"
	"staffing-api/pkg/importer"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	var filePath, mappingPath string
	dryRun := false
	for _, arg := range os.Args[1:] {
		switch {
		case strings.HasPrefix(arg, "--file="):
			filePath = strings.TrimPrefix(arg, "--file=")
		case strings.HasPrefix(arg, "--mapping="):
			mappingPath = strings.TrimPrefix(arg, "--mapping=")
		case arg == "--dry-run":
			dryRun = true
		}
	}

	if filePath == "" {
		fmt.Println("Usage: import_excel --file=roster.xlsx [--mapping=configs/mapping/staff_roster.yaml] [--dry-run]")
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("Failed to open Excel file: %v", err)
	}
	defer file.Close()

	fmt.Printf("Importing roster from %s (dry_run=%v)\n", filePath, dryRun)

	summary, err := importer.ImportExcel(context.Background(), db, file, importer.ImportOptions{
		MappingPath: mappingPath,
		DryRun:      dryRun,
		MaxErrors:   50,
	})
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Inserted: %d\nUpdated: %d\nSkipped: %d\nErrors: %d\nDry run: %v\n",
		summary.Inserted, summary.Updated, summary.Skipped, summary.Errors, summary.DryRun)

	for _, sheet := range summary.Sheets {
		fmt.Printf("  %s: inserted=%d, updated=%d, skipped=%d, errors=%d\n",
			sheet.Name, sheet.Inserted, sheet.Updated, sheet.Skipped, sheet.Errors)
		for _, sample := range sheet.Samples {
			fmt.Printf("    Row %d: %s\n", sample.Row, sample.Message)
		}
	}
}
