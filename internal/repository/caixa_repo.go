package repository

import (
	"context"
	"errors"

	"github.com/driman-systems/fondue/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaixaRepository interface {
	// CreateTx inserts the register inside the caller's transaction. The
	// partial unique index on open registers makes a concurrent duplicate
	// open fail here with gorm.ErrDuplicatedKey.
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.Caixa) error
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	FindAbertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Caixa, error)
	// FindAbertoPorUsuarioForUpdate locks the open register row until the
	// surrounding transaction commits — close reads the payment sum under
	// this lock.
	FindAbertoPorUsuarioForUpdate(ctx context.Context, tx *gorm.DB, usuarioID uuid.UUID) (*model.Caixa, error)
	// FindAbertoForShare re-reads the register inside the caller's transaction
	// with a share lock, blocking against a concurrent close that holds the
	// row FOR UPDATE. Returns nil when the register no longer exists or was
	// closed in the meantime.
	FindAbertoForShare(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Caixa, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, c *model.Caixa) error
	SumPagamentosPorMetodo(ctx context.Context, db *gorm.DB, caixaID uuid.UUID) (map[model.MetodoPagamento]decimal.Decimal, error)
	ListHistorico(ctx context.Context, page, limit int) ([]model.Caixa, int64, error)
	DB() *gorm.DB
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) DB() *gorm.DB { return r.db }

func (r *caixaRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.Caixa) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *caixaRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('caixas_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *caixaRepo) FindAbertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Where("aberto_por_id = ? AND fechado_em IS NULL", usuarioID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) FindAbertoPorUsuarioForUpdate(ctx context.Context, tx *gorm.DB, usuarioID uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("aberto_por_id = ? AND fechado_em IS NULL", usuarioID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) FindAbertoForShare(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id = ? AND fechado_em IS NULL", id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).Preload("AbertoPor").Preload("FechadoPor").First(&c, id).Error
	return &c, err
}

func (r *caixaRepo) UpdateTx(ctx context.Context, tx *gorm.DB, c *model.Caixa) error {
	return tx.WithContext(ctx).Save(c).Error
}

// SumPagamentosPorMetodo aggregates payments with a GROUP BY, returning every
// bucket (zero when absent). db may be a transaction or the root handle.
func (r *caixaRepo) SumPagamentosPorMetodo(ctx context.Context, db *gorm.DB, caixaID uuid.UUID) (map[model.MetodoPagamento]decimal.Decimal, error) {
	if db == nil {
		db = r.db
	}
	type row struct {
		Metodo model.MetodoPagamento
		Total  decimal.Decimal
	}
	var rows []row
	err := db.WithContext(ctx).
		Model(&model.Pagamento{}).
		Select("metodo, COALESCE(SUM(valor), 0) AS total").
		Where("caixa_id = ?", caixaID).
		Group("metodo").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[model.MetodoPagamento]decimal.Decimal, len(model.Metodos))
	for _, m := range model.Metodos {
		sums[m] = decimal.Zero
	}
	for _, rw := range rows {
		sums[rw.Metodo] = rw.Total
	}
	return sums, nil
}

func (r *caixaRepo) ListHistorico(ctx context.Context, page, limit int) ([]model.Caixa, int64, error) {
	var caixas []model.Caixa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Caixa{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("AbertoPor").
		Order("numero DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&caixas).Error
	return caixas, total, err
}
