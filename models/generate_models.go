package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column Mismatch Report Usage:

Set GENERATE_COLUMN_REPORT=true and start the binary. For every table backing a model
the report lists columns that exist in the database but have no field in the Go struct.

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: blogs ---
Found 1 columns not accounted for in model:
  - legacy_slug

--- Table: users ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// All returns one instance of every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Token{},
		&BlogCategory{},
		&Blog{},
		&BlogCategoryLink{},
		&Industry{},
		&Experience{},
		&ExperienceIndustryLink{},
		&Education{},
		&Project{},
		&Skill{},
		&SocialNetworkingService{},
		&SocialNetworking{},
	}
}

// GenerateModels writes typed query helpers for every model into outPath.
// The schema must already be migrated.
func GenerateModels(db *gorm.DB, outPath string) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 newLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	g.Execute()
	fmt.Println("Model generation complete!")
}

// ColumnMismatch lists the columns of one table that no model field maps to.
type ColumnMismatch struct {
	Table   string
	Columns []string
	Missing bool // table does not exist yet
}

// ColumnMismatchReport compares the live schema with the model definitions.
func ColumnMismatchReport(db *gorm.DB) ([]ColumnMismatch, error) {
	var report []ColumnMismatch
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			report = append(report, ColumnMismatch{Table: table, Missing: true})
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", table, err)
		}

		known := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			known[name] = true
		}

		entry := ColumnMismatch{Table: table}
		for _, column := range columnTypes {
			if !known[column.Name()] {
				entry.Columns = append(entry.Columns, column.Name())
			}
		}
		report = append(report, entry)
	}

	sort.Slice(report, func(i, j int) bool { return report[i].Table < report[j].Table })
	return report, nil
}

// PrintColumnMismatchReport renders the report the way operators read it.
func PrintColumnMismatchReport(w io.Writer, report []ColumnMismatch) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	total := 0
	for _, entry := range report {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", entry.Table)
		switch {
		case entry.Missing:
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
		case len(entry.Columns) > 0:
			fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(entry.Columns))
			for _, col := range entry.Columns {
				fmt.Fprintf(w, "  - %s\n", col)
			}
			total += len(entry.Columns)
		default:
			fmt.Fprintln(w, "All columns are accounted for in the model.")
		}
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
}
