package repository

import (
	"context"

	"almapos/internal/model"

	"gorm.io/gorm"
)

type CatalogoRepository interface {
	ListTiposMovimiento(ctx context.Context) ([]model.CatalogoTipoMovimiento, error)
	ListMetodosPago(ctx context.Context) ([]model.CatalogoMetodoPago, error)
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) ListTiposMovimiento(ctx context.Context) ([]model.CatalogoTipoMovimiento, error) {
	var tipos []model.CatalogoTipoMovimiento
	err := r.db.WithContext(ctx).Order("id ASC").Find(&tipos).Error
	return tipos, err
}

func (r *catalogoRepo) ListMetodosPago(ctx context.Context) ([]model.CatalogoMetodoPago, error) {
	var metodos []model.CatalogoMetodoPago
	err := r.db.WithContext(ctx).Order("id ASC").Find(&metodos).Error
	return metodos, err
}
