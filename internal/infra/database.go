package infra

import (
	"fmt"

	"github.com/driman-systems/fondue/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies the idempotent SQL patches GORM cannot express (partial unique
// index, sequences, enum check constraints).
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
		&model.Usuario{},
		&model.Produto{},
		&model.Variacao{},
		&model.Acompanhamento{},
		&model.Caixa{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.Pagamento{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// Each statement uses IF NOT EXISTS / guarded DO blocks so re-running on an
// already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open register per operator. The database enforces the
		// invariant; concurrent opens lose with a unique violation.
		{"partial unique index on open caixa per operator", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_caixas_aberto_por
    ON caixas (aberto_por_id)
    WHERE fechado_em IS NULL`},

		// Monotonically increasing register numbers, allocated inside the
		// open transaction.
		{"caixa number sequence",
			`CREATE SEQUENCE IF NOT EXISTS caixas_numero_seq`},

		// Order (comanda) numbers.
		{"pedido number sequence",
			`CREATE SEQUENCE IF NOT EXISTS pedidos_numero_seq`},

		// Closed payment-method set at the column level: the summary
		// aggregator can rely on exactly four buckets.
		{"metodo check constraint", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pagamentos_metodo') THEN
    ALTER TABLE pagamentos ADD CONSTRAINT chk_pagamentos_metodo
      CHECK (metodo IN ('DINHEIRO', 'PIX', 'CREDITO', 'DEBITO'));
  END IF;
END $$`},

		{"tipo produto check constraint", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_produtos_tipo') THEN
    ALTER TABLE produtos ADD CONSTRAINT chk_produtos_tipo
      CHECK (tipo IN ('FONDUE', 'BEBIDA', 'OUTRO'));
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
