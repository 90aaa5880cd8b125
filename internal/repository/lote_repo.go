package repository

import (
	"context"

	"almapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoteRepository interface {
	Create(ctx context.Context, l *model.Lote) error
	CreateTx(tx *gorm.DB, l *model.Lote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Lote, error)
	UpdateDisponible(ctx context.Context, id uuid.UUID, cantidad int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) Create(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *loteRepo) CreateTx(tx *gorm.DB, l *model.Lote) error {
	return tx.Create(l).Error
}

func (r *loteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *loteRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Lote, error) {
	var lotes []model.Lote
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("fecha_compra ASC").
		Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) UpdateDisponible(ctx context.Context, id uuid.UUID, cantidad int) error {
	return r.db.WithContext(ctx).Model(&model.Lote{}).
		Where("id = ?", id).
		Update("cantidad_disponible", cantidad).Error
}

func (r *loteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Lote{}, id).Error
}
