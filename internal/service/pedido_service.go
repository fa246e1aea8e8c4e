package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/infra"
	"github.com/driman-systems/fondue/internal/model"
	"github.com/driman-systems/fondue/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrPedidoNaoEncontrado = errors.New("Pedido não encontrado")
	// ErrEscopoCaixa is returned when the listing request names neither the
	// operator's current register nor a specific one.
	ErrEscopoCaixa = errors.New("Informe caixaAtual=true ou caixaId")
)

type PedidoService interface {
	// Listar returns the orders of one register: the operator's open one when
	// filter.CaixaAtual is set, or filter.CaixaID otherwise.
	Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.PedidoFilter) (*dto.ListaPedidosResponse, error)
	Obter(ctx context.Context, id string) (*dto.PedidoResponse, error)
	// Comanda renders the kitchen/receipt ticket PDF for one order.
	Comanda(ctx context.Context, id string) ([]byte, int, error)
}

type pedidoService struct {
	pedidoRepo repository.PedidoRepository
	caixaRepo  repository.CaixaRepository
}

func NewPedidoService(pedidoRepo repository.PedidoRepository, caixaRepo repository.CaixaRepository) PedidoService {
	return &pedidoService{pedidoRepo: pedidoRepo, caixaRepo: caixaRepo}
}

func (s *pedidoService) Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.PedidoFilter) (*dto.ListaPedidosResponse, error) {
	var caixa *model.Caixa
	switch {
	case filter.CaixaAtual:
		var err error
		caixa, err = s.caixaRepo.FindAbertoPorUsuario(ctx, usuarioID)
		if err != nil {
			return nil, err
		}
		if caixa == nil {
			// An operator without an open register simply has nothing to list.
			return &dto.ListaPedidosResponse{Orders: []dto.PedidoResponse{}}, nil
		}
	case filter.CaixaID != "":
		id, err := uuid.Parse(filter.CaixaID)
		if err != nil {
			return nil, fmt.Errorf("%w: caixaId %s", ErrIDInvalido, filter.CaixaID)
		}
		caixa, err = s.caixaRepo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaixaNaoEncontrado
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrEscopoCaixa
	}

	pedidos, err := s.pedidoRepo.ListByCaixa(ctx, caixa.ID, filter)
	if err != nil {
		return nil, err
	}

	orders := make([]dto.PedidoResponse, 0, len(pedidos))
	totais := map[model.MetodoPagamento]decimal.Decimal{}
	pago := decimal.Zero
	for i := range pedidos {
		orders = append(orders, toPedidoResponse(&pedidos[i]))
		for _, pg := range pedidos[i].Pagamentos {
			totais[pg.Metodo] = totais[pg.Metodo].Add(pg.Valor)
			pago = pago.Add(pg.Valor)
		}
	}

	return &dto.ListaPedidosResponse{
		Caixa: &dto.CaixaInfo{
			ID:       caixa.ID.String(),
			Number:   caixa.Numero,
			OpenedAt: caixa.AbertoEm.UTC().Format(time.RFC3339),
		},
		Orders: orders,
		Totals: dto.TotaisPagamentos{Paid: pago, ByMethod: porMetodo(totais)},
	}, nil
}

func (s *pedidoService) Obter(ctx context.Context, id string) (*dto.PedidoResponse, error) {
	pedido, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPedidoResponse(pedido)
	return &resp, nil
}

func (s *pedidoService) Comanda(ctx context.Context, id string) ([]byte, int, error) {
	pedido, err := s.buscar(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	pdf, err := infra.GerarComandaPDF(pedido)
	if err != nil {
		return nil, 0, err
	}
	return pdf, pedido.Numero, nil
}

func (s *pedidoService) buscar(ctx context.Context, id string) (*model.Pedido, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIDInvalido, id)
	}
	pedido, err := s.pedidoRepo.FindByID(ctx, pid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPedidoNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return pedido, nil
}

func toPedidoResponse(p *model.Pedido) dto.PedidoResponse {
	items := make([]dto.PedidoItemResponse, 0, len(p.Itens))
	for _, it := range p.Itens {
		nome := ""
		if it.Produto != nil {
			nome = it.Produto.Nome
		}
		items = append(items, dto.PedidoItemResponse{
			ProductName: nome,
			Quantity:    it.Quantidade,
			UnitPrice:   it.PrecoUnitario,
			Chocolate:   it.Detalhes.Chocolate,
			Toppings:    it.Detalhes.Acompanhamentos,
		})
	}

	payments := make([]dto.PedidoPagamentoResponse, 0, len(p.Pagamentos))
	for _, pg := range p.Pagamentos {
		payments = append(payments, dto.PedidoPagamentoResponse{
			Method: string(pg.Metodo),
			Value:  pg.Valor,
		})
	}

	return dto.PedidoResponse{
		ID:           p.ID.String(),
		Numero:       p.Numero,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
		CustomerName: p.ClienteNome,
		Notes:        p.Observacoes,
		Subtotal:     p.Subtotal,
		Desconto:     p.Desconto,
		Total:        p.Total,
		Items:        items,
		Payments:     payments,
	}
}
