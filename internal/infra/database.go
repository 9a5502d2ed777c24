package infra

import (
	"fmt"

	"comoencasa/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for every table, then applies the idempotent SQL patches AutoMigrate cannot
// express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Categoria{},
		&model.Insumo{},
		&model.Receta{},
		&model.RecetaInsumo{},
		&model.RecetaSubReceta{},
		&model.Producto{},
		&model.MovimientoInsumo{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index backing the low stock alert query.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_insumos_bajo_minimo') THEN
		    CREATE INDEX idx_insumos_bajo_minimo
		        ON insumos (stock_actual)
		        WHERE activo AND stock_actual <= stock_minimo;
		  END IF;
		END $$`,
		// Movement history is always read newest-first per insumo.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_insumo_fecha') THEN
		    CREATE INDEX idx_movimientos_insumo_fecha
		        ON movimientos_insumo (insumo_id, created_at DESC);
		  END IF;
		END $$`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
