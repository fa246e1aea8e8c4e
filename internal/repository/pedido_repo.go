package repository

import (
	"context"
	"time"

	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PagamentoExportRow is one line of the payments CSV export.
type PagamentoExportRow struct {
	CreatedAt   time.Time
	PedidoID    uuid.UUID
	CaixaNumero int
	Metodo      model.MetodoPagamento
	Valor       decimal.Decimal
}

type PedidoRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	ListByCaixa(ctx context.Context, caixaID uuid.UUID, filter dto.PedidoFilter) ([]model.Pedido, error)
	ListPagamentosExport(ctx context.Context, caixaID string) ([]PagamentoExportRow, error)
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

// CreateTx persists the order header, line items and payments in one insert
// graph inside the caller's transaction.
func (r *pedidoRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('pedidos_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Itens.Produto").
		Preload("Pagamentos").
		First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) ListByCaixa(ctx context.Context, caixaID uuid.UUID, filter dto.PedidoFilter) ([]model.Pedido, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Pedido{}).
		Where("pedidos.caixa_id = ?", caixaID)

	if filter.From != "" {
		if from, err := time.Parse(time.RFC3339, filter.From); err == nil {
			q = q.Where("pedidos.created_at >= ?", from)
		}
	}
	if filter.To != "" {
		if to, err := time.Parse(time.RFC3339, filter.To); err == nil {
			q = q.Where("pedidos.created_at <= ?", to)
		}
	}

	if filter.Q != "" {
		like := "%" + filter.Q + "%"
		q = q.Where(
			`pedidos.id::text ILIKE ? OR pedidos.cliente_nome ILIKE ? OR EXISTS (
				SELECT 1 FROM pedido_items pi
				JOIN produtos pr ON pr.id = pi.produto_id
				WHERE pi.pedido_id = pedidos.id AND pr.nome ILIKE ?
			)`, like, like, like)
	}

	var pedidos []model.Pedido
	err := q.Preload("Itens.Produto").
		Preload("Pagamentos").
		Order("pedidos.created_at DESC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListPagamentosExport(ctx context.Context, caixaID string) ([]PagamentoExportRow, error) {
	q := r.db.WithContext(ctx).
		Table("pagamentos").
		Select("pagamentos.created_at, pagamentos.pedido_id, caixas.numero AS caixa_numero, pagamentos.metodo, pagamentos.valor").
		Joins("JOIN caixas ON caixas.id = pagamentos.caixa_id").
		Order("pagamentos.created_at DESC")
	if caixaID != "" {
		q = q.Where("pagamentos.caixa_id = ?", caixaID)
	}

	var rows []PagamentoExportRow
	err := q.Scan(&rows).Error
	return rows, err
}
