// database/bootstrap.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"plantcare/entities"
)

// Open connects to SQLite and runs migrations. A single connection keeps
// SQLite writers serialized and lets in-memory databases survive.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}
	dsn += "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	// Timestamps are stored as text, so they are kept in UTC to compare in
	// instant order whatever TZ the process runs in.
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func OpenSQLite(path string) *gorm.DB {
	db, err := Open(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return db
}

func Migrate(db *gorm.DB) error {
	// run before AutoMigrate so care_logs is created from the legacy rows
	if err := migrateLegacyCareLog(db); err != nil {
		return fmt.Errorf("migrate care_log: %w", err)
	}

	if err := db.AutoMigrate(
		&entities.Plant{},
		&entities.CarePlan{},
		&entities.Task{},
		&entities.CareLogEntry{},
		&entities.Household{},
		&entities.HouseholdMember{},
		&entities.HouseholdPlant{},
		&entities.TaskTypeSetting{},
		&entities.AIUsage{},
		&entities.GuideDocument{},
		&entities.GuideChunk{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	return ensurePartialIndexes(db)
}

// ensurePartialIndexes backs the single-active-plan rule and the
// next-occurrence idempotency key with the database itself.
func ensurePartialIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_care_plans_active
			ON care_plans(plant_id) WHERE is_active = 1`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_tasks_pending_occurrence
			ON tasks(plant_id, task_type, due_date)
			WHERE completed_at IS NULL AND skipped_at IS NULL`,
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, s := range stmts {
			if err := tx.Exec(s).Error; err != nil {
				return fmt.Errorf("create index: %w", err)
			}
		}
		return nil
	})
}

// migrateLegacyCareLog copies rows from an imported `care_log` table into
// `care_logs` and drops the old table.
func migrateLegacyCareLog(db *gorm.DB) error {
	var tbl string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name='care_log'`).Scan(&tbl).Error; err != nil {
		return fmt.Errorf("check table exist: %w", err)
	}
	if tbl == "" {
		return nil
	}
	var cur string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name='care_logs'`).Scan(&cur).Error; err != nil {
		return fmt.Errorf("check table exist: %w", err)
	}
	if cur != "" {
		log.Printf("[db] both care_log and care_logs exist, leaving legacy table untouched")
		return nil
	}

	type colInfo struct {
		Cid       int
		Name      string
		Type      string
		NotNull   int
		DfltValue sql.NullString
		Pk        int
	}
	var cols []colInfo
	if err := db.Raw(`PRAGMA table_info(care_log)`).Scan(&cols).Error; err != nil {
		return fmt.Errorf("table_info: %w", err)
	}

	oldCols := map[string]bool{}
	for _, c := range cols {
		oldCols[strings.ToLower(c.Name)] = true
	}
	sel := func(name, def string) string {
		if oldCols[name] {
			return name
		}
		return def + " AS " + name
	}

	createSQL := `
CREATE TABLE care_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    plant_id INTEGER,
    task_id INTEGER,
    action TEXT,
    notes TEXT,
    outcome TEXT,
    performed_by TEXT,
    performed_at DATETIME
);
`
	copySQL := fmt.Sprintf(`
INSERT INTO care_logs (plant_id, task_id, action, notes, outcome, performed_by, performed_at)
SELECT %s, %s, %s, %s, %s, %s, %s FROM care_log;
`,
		sel("plant_id", "NULL"),
		sel("task_id", "NULL"),
		sel("action", "''"),
		sel("notes", "''"),
		sel("outcome", "''"),
		sel("performed_by", "''"),
		sel("performed_at", "CURRENT_TIMESTAMP"),
	)

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(createSQL).Error; err != nil {
			return err
		}
		if err := tx.Exec(copySQL).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DROP TABLE care_log`).Error; err != nil {
			return err
		}
		log.Printf("[db] migrated legacy care_log table")
		return nil
	})
}
