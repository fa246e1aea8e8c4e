package repository

import (
	"context"

	"github.com/driman-systems/fondue/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProdutoRepository is the data access contract for the catalog. Services
// depend on this interface, not on the concrete GORM implementation, so unit
// tests can swap in in-memory fakes.
type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	List(ctx context.Context, somenteAtivos bool) ([]model.Produto, error)
	Update(ctx context.Context, p *model.Produto) error
	// UpdateTx saves the product's scalar fields inside the caller's
	// transaction, leaving associations to the Replace methods below.
	UpdateTx(tx *gorm.DB, p *model.Produto) error
	// ReplaceVariacoes and ReplaceAcompanhamentos implement the front's
	// replace-wholesale edit semantics inside the caller's transaction.
	ReplaceVariacoesTx(tx *gorm.DB, produtoID uuid.UUID, variacoes []model.Variacao) error
	ReplaceAcompanhamentosTx(tx *gorm.DB, produto *model.Produto, acompanhamentos []model.Acompanhamento) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) DB() *gorm.DB { return r.db }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).
		Preload("Variacoes").
		Preload("Acompanhamentos").
		First(&p, id).Error
	return &p, err
}

func (r *produtoRepo) List(ctx context.Context, somenteAtivos bool) ([]model.Produto, error) {
	var produtos []model.Produto
	q := r.db.WithContext(ctx).
		Preload("Variacoes").
		Preload("Acompanhamentos").
		Order("nome ASC")
	if somenteAtivos {
		q = q.Where("ativo = true")
	}
	err := q.Find(&produtos).Error
	return produtos, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Omit("Variacoes", "Acompanhamentos").Save(p).Error
}

func (r *produtoRepo) UpdateTx(tx *gorm.DB, p *model.Produto) error {
	return tx.Omit("Variacoes", "Acompanhamentos").Save(p).Error
}

func (r *produtoRepo) ReplaceVariacoesTx(tx *gorm.DB, produtoID uuid.UUID, variacoes []model.Variacao) error {
	if err := tx.Where("produto_id = ?", produtoID).Delete(&model.Variacao{}).Error; err != nil {
		return err
	}
	if len(variacoes) == 0 {
		return nil
	}
	for i := range variacoes {
		variacoes[i].ProdutoID = produtoID
	}
	return tx.Create(&variacoes).Error
}

func (r *produtoRepo) ReplaceAcompanhamentosTx(tx *gorm.DB, produto *model.Produto, acompanhamentos []model.Acompanhamento) error {
	return tx.Model(produto).Association("Acompanhamentos").Replace(acompanhamentos)
}

func (r *produtoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Update("ativo", false).Error
}
