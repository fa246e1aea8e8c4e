package service

// In-memory repository fakes. DB() returns nil so runTx executes the
// transactional closures directly.

import (
	"context"
	"time"

	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/model"
	"github.com/driman-systems/fondue/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── CaixaRepository fake ─────────────────────────────────────────────────────

type fakeCaixaRepo struct {
	caixas     map[uuid.UUID]*model.Caixa
	pagamentos []model.Pagamento
	seq        int

	// errFindByID, when set, simulates a storage failure on FindByID.
	errFindByID error
	// aoRevalidar runs at the start of FindAbertoForShare, letting tests
	// interleave a concurrent close between checkout's lookup and its
	// transaction.
	aoRevalidar func()
}

func newFakeCaixaRepo() *fakeCaixaRepo {
	return &fakeCaixaRepo{caixas: make(map[uuid.UUID]*model.Caixa)}
}

func (r *fakeCaixaRepo) DB() *gorm.DB { return nil }

func (r *fakeCaixaRepo) CreateTx(_ context.Context, _ *gorm.DB, c *model.Caixa) error {
	for _, existente := range r.caixas {
		if existente.AbertoPorID == c.AbertoPorID && existente.Aberto() {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.caixas[c.ID] = c
	return nil
}

func (r *fakeCaixaRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *fakeCaixaRepo) FindAbertoPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.Caixa, error) {
	for _, c := range r.caixas {
		if c.AbertoPorID == usuarioID && c.Aberto() {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCaixaRepo) FindAbertoPorUsuarioForUpdate(ctx context.Context, _ *gorm.DB, usuarioID uuid.UUID) (*model.Caixa, error) {
	return r.FindAbertoPorUsuario(ctx, usuarioID)
}

func (r *fakeCaixaRepo) FindAbertoForShare(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Caixa, error) {
	if r.aoRevalidar != nil {
		r.aoRevalidar()
	}
	c, ok := r.caixas[id]
	if !ok || !c.Aberto() {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCaixaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caixa, error) {
	if r.errFindByID != nil {
		return nil, r.errFindByID
	}
	c, ok := r.caixas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCaixaRepo) UpdateTx(_ context.Context, _ *gorm.DB, c *model.Caixa) error {
	r.caixas[c.ID] = c
	return nil
}

func (r *fakeCaixaRepo) SumPagamentosPorMetodo(_ context.Context, _ *gorm.DB, caixaID uuid.UUID) (map[model.MetodoPagamento]decimal.Decimal, error) {
	sums := make(map[model.MetodoPagamento]decimal.Decimal, len(model.Metodos))
	for _, m := range model.Metodos {
		sums[m] = decimal.Zero
	}
	for _, p := range r.pagamentos {
		if p.CaixaID == caixaID {
			sums[p.Metodo] = sums[p.Metodo].Add(p.Valor)
		}
	}
	return sums, nil
}

func (r *fakeCaixaRepo) ListHistorico(_ context.Context, _, _ int) ([]model.Caixa, int64, error) {
	var out []model.Caixa
	for _, c := range r.caixas {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

// ── ProdutoRepository fake ───────────────────────────────────────────────────

type fakeProdutoRepo struct {
	produtos map[uuid.UUID]*model.Produto
}

func newFakeProdutoRepo() *fakeProdutoRepo {
	return &fakeProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *fakeProdutoRepo) add(p *model.Produto) *model.Produto {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = p
	return p
}

func (r *fakeProdutoRepo) DB() *gorm.DB { return nil }

func (r *fakeProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	r.add(p)
	return nil
}

func (r *fakeProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProdutoRepo) List(_ context.Context, somenteAtivos bool) ([]model.Produto, error) {
	var out []model.Produto
	for _, p := range r.produtos {
		if somenteAtivos && !p.Ativo {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	r.produtos[p.ID] = p
	return nil
}

func (r *fakeProdutoRepo) UpdateTx(_ *gorm.DB, p *model.Produto) error {
	r.produtos[p.ID] = p
	return nil
}

func (r *fakeProdutoRepo) ReplaceVariacoesTx(_ *gorm.DB, produtoID uuid.UUID, variacoes []model.Variacao) error {
	if p, ok := r.produtos[produtoID]; ok {
		p.Variacoes = variacoes
	}
	return nil
}

func (r *fakeProdutoRepo) ReplaceAcompanhamentosTx(_ *gorm.DB, produto *model.Produto, acompanhamentos []model.Acompanhamento) error {
	if p, ok := r.produtos[produto.ID]; ok {
		p.Acompanhamentos = acompanhamentos
	}
	return nil
}

func (r *fakeProdutoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.produtos[id]; ok {
		p.Ativo = false
	}
	return nil
}

// ── PedidoRepository fake ────────────────────────────────────────────────────

type fakePedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
	caixa   *fakeCaixaRepo
	seq     int

	errFindByID error
}

func newFakePedidoRepo(caixa *fakeCaixaRepo) *fakePedidoRepo {
	return &fakePedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido), caixa: caixa}
}

func (r *fakePedidoRepo) DB() *gorm.DB { return nil }

func (r *fakePedidoRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	for i := range p.Itens {
		p.Itens[i].PedidoID = p.ID
	}
	for i := range p.Pagamentos {
		p.Pagamentos[i].PedidoID = p.ID
		// Mirror the payments into the register fake so summary tests see them.
		if r.caixa != nil {
			r.caixa.pagamentos = append(r.caixa.pagamentos, p.Pagamentos[i])
		}
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *fakePedidoRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *fakePedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	if r.errFindByID != nil {
		return nil, r.errFindByID
	}
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePedidoRepo) ListByCaixa(_ context.Context, caixaID uuid.UUID, _ dto.PedidoFilter) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.CaixaID == caixaID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePedidoRepo) ListPagamentosExport(_ context.Context, _ string) ([]repository.PagamentoExportRow, error) {
	return nil, nil
}
