package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tealeg/xlsx/v3"
	"gopkg.in/yaml.v3"
)

// ImportOptions configures a roster import run.
type ImportOptions struct {
	MappingPath string // default "configs/mapping/staff_roster.yaml"
	DryRun      bool
	MaxErrors   int // default 50
}

// RowError describes a single rejected spreadsheet row.
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// SheetSummary contains the import statistics for a single sheet.
type SheetSummary struct {
	Name     string     `json:"name"`
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Samples  []RowError `json:"error_samples,omitempty"`
}

// ImportSummary contains the overall import statistics.
type ImportSummary struct {
	Inserted int            `json:"inserted"`
	Updated  int            `json:"updated"`
	Skipped  int            `json:"skipped"`
	Errors   int            `json:"errors"`
	Sheets   []SheetSummary `json:"sheets"`
	DryRun   bool           `json:"dry_run"`
}

// MappingConfig is the YAML column-mapping configuration. Each sheet maps
// spreadsheet columns onto one of the two roster entities.
type MappingConfig struct {
	Version int                    `yaml:"version"`
	Sheets  map[string]SheetConfig `yaml:"sheets"`
}

type SheetConfig struct {
	Entity     string                  `yaml:"entity"` // "project" or "employee"
	NaturalKey []string                `yaml:"natural_key"`
	Aliases    map[string][]string     `yaml:"aliases"`
	Columns    map[string]ColumnConfig `yaml:"columns"`
}

type ColumnConfig struct {
	Field string `yaml:"field"`
	Type  string `yaml:"type"` // TEXT, FLOAT, INT, DATE; "?" suffix marks optional
}

type entityDef struct {
	table  string
	fields []string
}

var entities = map[string]entityDef{
	"project":  {table: "projects", fields: []string{"name", "deadline", "complexity"}},
	"employee": {table: "employees", fields: []string{"full_name", "position", "department"}},
}

// ImportExcel ingests a roster workbook. Sheets without a mapping entry are
// skipped. Rows are matched by the sheet's natural key and inserted or
// updated accordingly; with DryRun set, everything runs inside a
// transaction that is rolled back at the end.
func ImportExcel(ctx context.Context, db *pgxpool.Pool, r io.Reader, opts ImportOptions) (ImportSummary, error) {
	summary := ImportSummary{
		DryRun: opts.DryRun,
		Sheets: []SheetSummary{},
	}

	if opts.MappingPath == "" {
		opts.MappingPath = "configs/mapping/staff_roster.yaml"
	}
	if opts.MaxErrors == 0 {
		opts.MaxErrors = 50
	}

	mapping, err := LoadMappingConfig(opts.MappingPath)
	if err != nil {
		return summary, fmt.Errorf("failed to load mapping config: %w", err)
	}

	// xlsx needs an io.ReaderAt, so buffer the upload
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("failed to read Excel file: %w", err)
	}
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return summary, fmt.Errorf("failed to open Excel file: %w", err)
	}

	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return summary, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sheet := range xlFile.Sheets {
		sheetConfig, exists := mapping.Sheets[sheet.Name]
		if !exists {
			continue
		}
		def, ok := entities[sheetConfig.Entity]
		if !ok {
			return summary, fmt.Errorf("sheet %q maps to unknown entity %q", sheet.Name, sheetConfig.Entity)
		}

		sheetSummary := processSheet(ctx, tx, sheet, sheetConfig, def)
		summary.Sheets = append(summary.Sheets, sheetSummary)

		summary.Inserted += sheetSummary.Inserted
		summary.Updated += sheetSummary.Updated
		summary.Skipped += sheetSummary.Skipped
		summary.Errors += sheetSummary.Errors

		if summary.Errors > opts.MaxErrors {
			return summary, fmt.Errorf("too many errors (%d), stopping import", summary.Errors)
		}
	}

	if !opts.DryRun {
		if err := tx.Commit(ctx); err != nil {
			return summary, fmt.Errorf("failed to commit import: %w", err)
		}
	}

	return summary, nil
}

// LoadMappingConfig reads and validates a YAML mapping file.
func LoadMappingConfig(path string) (*MappingConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg MappingConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for name, sheet := range cfg.Sheets {
		if _, ok := entities[sheet.Entity]; !ok {
			return nil, fmt.Errorf("sheet %q: unknown entity %q", name, sheet.Entity)
		}
		if len(sheet.NaturalKey) == 0 {
			return nil, fmt.Errorf("sheet %q: natural_key is required", name)
		}
		if len(sheet.Columns) == 0 {
			return nil, fmt.Errorf("sheet %q: columns are required", name)
		}
	}
	return &cfg, nil
}

func processSheet(ctx context.Context, tx pgx.Tx, sheet *xlsx.Sheet, config SheetConfig, def entityDef) SheetSummary {
	summary := SheetSummary{Name: sheet.Name}

	headerRow, err := sheet.Row(0)
	if err != nil {
		summary.Errors++
		summary.Samples = append(summary.Samples, RowError{
			Sheet:   sheet.Name,
			Row:     1,
			Message: "failed to read header row: " + err.Error(),
		})
		return summary
	}

	headers := resolveHeaders(headerRow, config)

	rowIdx := 1
	for {
		row, err := sheet.Row(rowIdx)
		if err != nil {
			break
		}

		cells := cellValues(row)
		if len(cells) == 0 {
			summary.Skipped++
			rowIdx++
			continue
		}

		rowData := map[string]string{}
		for col, colIdx := range headers {
			if colIdx < len(cells) && cells[colIdx] != "" {
				rowData[col] = cells[colIdx]
			}
		}
		if len(rowData) == 0 {
			summary.Skipped++
			rowIdx++
			continue
		}

		fields, err := buildRow(rowData, config)
		if err != nil {
			recordError(&summary, sheet.Name, rowIdx+1, err)
			rowIdx++
			continue
		}

		existingID, err := findExisting(ctx, tx, fields, config.NaturalKey, def)
		if err != nil {
			recordError(&summary, sheet.Name, rowIdx+1, err)
			rowIdx++
			continue
		}

		if existingID > 0 {
			if err := updateRow(ctx, tx, existingID, fields, def); err != nil {
				recordError(&summary, sheet.Name, rowIdx+1, err)
				rowIdx++
				continue
			}
			summary.Updated++
		} else {
			if err := insertRow(ctx, tx, fields, def); err != nil {
				recordError(&summary, sheet.Name, rowIdx+1, err)
				rowIdx++
				continue
			}
			summary.Inserted++
		}

		rowIdx++
	}

	return summary
}

func recordError(summary *SheetSummary, sheet string, row int, err error) {
	summary.Errors++
	summary.Samples = append(summary.Samples, RowError{
		Sheet:   sheet,
		Row:     row,
		Message: err.Error(),
	})
}

// resolveHeaders maps each mapped column key to its spreadsheet column
// index, honoring the sheet's header aliases.
func resolveHeaders(headerRow *xlsx.Row, config SheetConfig) map[string]int {
	byName := map[string]int{}
	colIdx := 0
	headerRow.ForEachCell(func(c *xlsx.Cell) error {
		name := strings.ToUpper(strings.TrimSpace(c.String()))
		if name != "" {
			byName[name] = colIdx
		}
		colIdx++
		return nil
	})

	resolved := map[string]int{}
	for col := range config.Columns {
		if idx, ok := byName[strings.ToUpper(col)]; ok {
			resolved[col] = idx
			continue
		}
		for _, alias := range config.Aliases[col] {
			if idx, ok := byName[strings.ToUpper(alias)]; ok {
				resolved[col] = idx
				break
			}
		}
	}
	return resolved
}

func cellValues(row *xlsx.Row) []string {
	var values []string
	nonEmpty := false
	row.ForEachCell(func(c *xlsx.Cell) error {
		v := strings.TrimSpace(c.String())
		values = append(values, v)
		if v != "" {
			nonEmpty = true
		}
		return nil
	})
	if !nonEmpty {
		return nil
	}
	return values
}

// buildRow converts raw cell strings into typed field values, enforcing
// that non-optional columns are present.
func buildRow(rowData map[string]string, config SheetConfig) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	for col, columnConfig := range config.Columns {
		value, exists := rowData[col]
		if !exists || value == "" {
			if strings.HasSuffix(columnConfig.Type, "?") {
				continue
			}
			return nil, fmt.Errorf("missing required column %q", col)
		}

		parsed, err := parseValue(value, columnConfig.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		fields[columnConfig.Field] = parsed
	}

	return fields, nil
}

func parseValue(value, valueType string) (interface{}, error) {
	switch strings.TrimSuffix(valueType, "?") {
	case "TEXT", "":
		return value, nil
	case "INT":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", value)
		}
		return n, nil
	case "FLOAT":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", value)
		}
		return f, nil
	case "DATE":
		// YYYY-MM-DD is canonical; a couple of spreadsheet-typical
		// formats are tolerated
		for _, layout := range []string{"2006-01-02", "01-02-06", "1/2/06", "01/02/2006"} {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid date %q", value)
	default:
		return nil, fmt.Errorf("unknown column type %q", valueType)
	}
}

func findExisting(ctx context.Context, tx pgx.Tx, fields map[string]interface{}, naturalKey []string, def entityDef) (int64, error) {
	clauses := make([]string, 0, len(naturalKey))
	args := make([]interface{}, 0, len(naturalKey))
	for i, key := range naturalKey {
		value, ok := fields[key]
		if !ok {
			return 0, fmt.Errorf("natural key field %q missing from row", key)
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", key, i+1))
		args = append(args, value)
	}

	query := fmt.Sprintf("SELECT id FROM %s WHERE %s", def.table, strings.Join(clauses, " AND "))
	var id int64
	err := tx.QueryRow(ctx, query, args...).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func insertRow(ctx context.Context, tx pgx.Tx, fields map[string]interface{}, def entityDef) error {
	cols := []string{}
	placeholders := []string{}
	args := []interface{}{}
	for _, field := range def.fields {
		value, ok := fields[field]
		if !ok {
			continue
		}
		cols = append(cols, field)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
		args = append(args, value)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		def.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	_, err := tx.Exec(ctx, query, args...)
	return err
}

func updateRow(ctx context.Context, tx pgx.Tx, id int64, fields map[string]interface{}, def entityDef) error {
	setParts := []string{}
	args := []interface{}{}
	for _, field := range def.fields {
		value, ok := fields[field]
		if !ok {
			continue
		}
		setParts = append(setParts, fmt.Sprintf("%s = $%d", field, len(args)+1))
		args = append(args, value)
	}
	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		def.table, strings.Join(setParts, ", "), len(args)+1,
	)
	args = append(args, id)

	_, err := tx.Exec(ctx, query, args...)
	return err
}
