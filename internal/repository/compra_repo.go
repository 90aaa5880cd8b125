package repository

import (
	"context"

	"almapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraRepository interface {
	CreateTx(tx *gorm.DB, c *model.Compra) error
	CreateLineasTx(tx *gorm.DB, lineas []model.CompraLinea) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	// DB exposes the underlying handle so the service can open a transaction
	// spanning compra + lotes + movimiento. Nil in unit-test mode.
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) CreateLineasTx(tx *gorm.DB, lineas []model.CompraLinea) error {
	return tx.Create(&lineas).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).Preload("Lineas").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) DB() *gorm.DB { return r.db }
