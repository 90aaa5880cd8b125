package infra

import (
	"fmt"

	"almapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx. Schema setup is
// the caller's job via RunMigrations.
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

	return db, nil
}

// RunMigrations creates/updates the schema: AutoMigrate over the models,
// then the idempotent SQL patches AutoMigrate cannot express (partial
// unique index, catalog seed rows).
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.SesionCaja{},
		&model.Movimiento{},
		&model.Lote{},
		&model.Compra{},
		&model.CompraLinea{},
		&model.CatalogoTipoMovimiento{},
		&model.CatalogoMetodoPago{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL/DML that GORM cannot express:
//   - the partial unique index backing "one open session per operator"
//   - the catalog seed rows legacy consumers resolve numeric ids from
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// One abierta session per operator, enforced at the DB level too.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_sesion_abierta_por_operador') THEN
		    CREATE UNIQUE INDEX uni_sesion_abierta_por_operador
		        ON sesiones_caja (operador_id)
		        WHERE estado = 'abierta';
		  END IF;
		END $$`,
		// Catalog seeds — ids are part of the wire contract, never renumber.
		`INSERT INTO catalogo_tipos_movimiento (id, nombre) VALUES
		  (1, 'INGRESO'), (2, 'EGRESO'), (3, 'AJUSTE'), (4, 'REVERSO')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO catalogo_metodos_pago (id, nombre) VALUES
		  (1, 'EFECTIVO'), (2, 'TARJETA'), (3, 'TRANSFERENCIA'), (4, 'CRÉDITO'), (5, 'OTRO')
		 ON CONFLICT (id) DO NOTHING`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
