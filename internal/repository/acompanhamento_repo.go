package repository

import (
	"context"

	"github.com/driman-systems/fondue/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AcompanhamentoRepository interface {
	Create(ctx context.Context, a *model.Acompanhamento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Acompanhamento, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Acompanhamento, error)
	List(ctx context.Context, somenteAtivos bool) ([]model.Acompanhamento, error)
	Update(ctx context.Context, a *model.Acompanhamento) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type acompanhamentoRepo struct{ db *gorm.DB }

func NewAcompanhamentoRepository(db *gorm.DB) AcompanhamentoRepository {
	return &acompanhamentoRepo{db: db}
}

func (r *acompanhamentoRepo) Create(ctx context.Context, a *model.Acompanhamento) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *acompanhamentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Acompanhamento, error) {
	var a model.Acompanhamento
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *acompanhamentoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Acompanhamento, error) {
	var as []model.Acompanhamento
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&as).Error
	return as, err
}

func (r *acompanhamentoRepo) List(ctx context.Context, somenteAtivos bool) ([]model.Acompanhamento, error) {
	var as []model.Acompanhamento
	q := r.db.WithContext(ctx).Order("nome ASC")
	if somenteAtivos {
		q = q.Where("ativo = true")
	}
	err := q.Find(&as).Error
	return as, err
}

func (r *acompanhamentoRepo) Update(ctx context.Context, a *model.Acompanhamento) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *acompanhamentoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Acompanhamento{}).Where("id = ?", id).Update("ativo", false).Error
}
