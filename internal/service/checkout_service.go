package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/model"
	"github.com/driman-systems/fondue/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrSemCaixaAberto is returned when an operation requires the operator's
// open register and there is none.
var ErrSemCaixaAberto = errors.New("Nenhum caixa aberto para o usuário")

// ErrIDInvalido marks malformed ids from path or query params; handlers map
// it to 400 instead of 500.
var ErrIDInvalido = errors.New("id inválido")

// ErrPagamentoNaoConfere carries the diagnostic totals the POS front needs to
// show the operator the exact shortfall or excess.
type ErrPagamentoNaoConfere struct {
	Subtotal decimal.Decimal
	Desconto decimal.Decimal
	Total    decimal.Decimal
	Pago     decimal.Decimal
}

func (e *ErrPagamentoNaoConfere) Error() string {
	return fmt.Sprintf("Pagamentos não conferem com o total: pago %s, total %s",
		e.Pago.StringFixed(2), e.Total.StringFixed(2))
}

type CheckoutService interface {
	Checkout(ctx context.Context, usuarioID uuid.UUID, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type checkoutService struct {
	pedidoRepo  repository.PedidoRepository
	produtoRepo repository.ProdutoRepository
	caixaRepo   repository.CaixaRepository
}

func NewCheckoutService(
	pedidoRepo repository.PedidoRepository,
	produtoRepo repository.ProdutoRepository,
	caixaRepo repository.CaixaRepository,
) CheckoutService {
	return &checkoutService{pedidoRepo: pedidoRepo, produtoRepo: produtoRepo, caixaRepo: caixaRepo}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with in-memory repos).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Checkout finalizes one POS sale:
//  1. resolve the operator's open register
//  2. resolve every line against the catalog and recompute unit prices
//     (client-sent unitPrice is advisory; the server's arithmetic wins)
//  3. apply the discount, reconcile tendered payments against the total
//  4. create order + items + payments in a single transaction, re-checking
//     under lock that the register is still open
//
// Any failure leaves zero rows: an order without payments is never an
// observable state, and a register closed mid-flight never receives them.
func (s *checkoutService) Checkout(ctx context.Context, usuarioID uuid.UUID, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	caixa, err := s.caixaRepo.FindAbertoPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, ErrSemCaixaAberto
	}

	itens, subtotal, err := s.resolverItens(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	desconto, total := AplicarDesconto(subtotal, req.Desconto)

	pago := SomarPagamentos(req.Pagamentos)
	if !PagamentoConfere(pago, total) {
		return nil, &ErrPagamentoNaoConfere{Subtotal: subtotal, Desconto: desconto, Total: total, Pago: pago}
	}

	pagamentos := make([]model.Pagamento, 0, len(req.Pagamentos))
	for _, p := range req.Pagamentos {
		metodo := model.MetodoPagamento(p.Metodo)
		if !metodo.Valido() {
			return nil, fmt.Errorf("método de pagamento desconhecido: %s", p.Metodo)
		}
		pagamentos = append(pagamentos, model.Pagamento{
			Metodo:  metodo,
			Valor:   p.Valor,
			CaixaID: caixa.ID,
		})
	}

	var pedido model.Pedido
	txErr := runTx(ctx, s.pedidoRepo.DB(), func(tx *gorm.DB) error {
		// The lookup above ran outside this transaction; a close may have
		// committed since. The share lock conflicts with close's FOR UPDATE,
		// so whichever commits first decides.
		aberto, err := s.caixaRepo.FindAbertoForShare(ctx, tx, caixa.ID)
		if err != nil {
			return err
		}
		if aberto == nil {
			return ErrSemCaixaAberto
		}

		numero, err := s.pedidoRepo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		pedido = model.Pedido{
			Numero:      numero,
			ClienteNome: req.ClienteNome,
			Observacoes: req.Observacoes,
			Subtotal:    subtotal,
			Desconto:    desconto,
			Total:       total,
			CaixaID:     caixa.ID,
			Itens:       itens,
			Pagamentos:  pagamentos,
		}
		return s.pedidoRepo.CreateTx(ctx, tx, &pedido)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.CheckoutResponse{
		OrderID: pedido.ID.String(),
		Numero:  pedido.Numero,
		Total:   pedido.Total,
	}, nil
}

// resolverItens maps checkout lines onto catalog rows, rejecting unknown or
// inactive products, unknown variation/topping names, and option sets the
// product does not allow.
func (s *checkoutService) resolverItens(ctx context.Context, items []dto.CheckoutItem) ([]model.PedidoItem, decimal.Decimal, error) {
	itens := make([]model.PedidoItem, 0, len(items))
	subtotal := decimal.Zero

	for _, item := range items {
		pid, err := uuid.Parse(item.ProdutoID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("%w: productId %s", ErrIDInvalido, item.ProdutoID)
		}
		p, err := s.produtoRepo.FindByID(ctx, pid)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, fmt.Errorf("produto %s não encontrado", item.ProdutoID)
		}
		if err != nil {
			return nil, decimal.Zero, err
		}
		if !p.Ativo {
			return nil, decimal.Zero, fmt.Errorf("produto %s está inativo", p.Nome)
		}

		variacaoPreco := decimal.Zero
		var chocolate *string
		if item.VariacaoNome != nil && *item.VariacaoNome != "" {
			v := acharVariacao(p.Variacoes, *item.VariacaoNome)
			if v == nil {
				return nil, decimal.Zero, fmt.Errorf("variação %q inexistente para %s", *item.VariacaoNome, p.Nome)
			}
			variacaoPreco = v.Preco
			nome := v.Nome
			chocolate = &nome
		}

		if len(item.Acompanhamentos) > 0 && !p.UsaAcompanhamentos {
			return nil, decimal.Zero, fmt.Errorf("produto %s não aceita acompanhamentos", p.Nome)
		}
		if p.UsaAcompanhamentos && p.QtdAcompanhamentos > 0 && len(item.Acompanhamentos) > p.QtdAcompanhamentos {
			return nil, decimal.Zero, fmt.Errorf("produto %s aceita no máximo %d acompanhamentos", p.Nome, p.QtdAcompanhamentos)
		}

		extras := make([]decimal.Decimal, 0, len(item.Acompanhamentos))
		nomes := make([]string, 0, len(item.Acompanhamentos))
		for _, nome := range item.Acompanhamentos {
			a := acharAcompanhamento(p.Acompanhamentos, nome)
			if a == nil {
				return nil, decimal.Zero, fmt.Errorf("acompanhamento %q indisponível para %s", nome, p.Nome)
			}
			extras = append(extras, a.PrecoExtra)
			nomes = append(nomes, a.Nome)
		}

		precoUnitario := PrecoUnitario(p.Preco, variacaoPreco, extras)
		linha, err := SubtotalLinha(precoUnitario, item.Quantidade)
		if err != nil {
			return nil, decimal.Zero, err
		}
		subtotal = subtotal.Add(linha)

		itens = append(itens, model.PedidoItem{
			ProdutoID:     pid,
			Quantidade:    item.Quantidade,
			PrecoUnitario: precoUnitario,
			Detalhes: model.ItemDetalhes{
				Chocolate:       chocolate,
				Acompanhamentos: nomes,
			},
		})
	}

	return itens, subtotal, nil
}

func acharVariacao(variacoes []model.Variacao, nome string) *model.Variacao {
	for i := range variacoes {
		if variacoes[i].Nome == nome {
			return &variacoes[i]
		}
	}
	return nil
}

func acharAcompanhamento(acompanhamentos []model.Acompanhamento, nome string) *model.Acompanhamento {
	for i := range acompanhamentos {
		if acompanhamentos[i].Nome == nome && acompanhamentos[i].Ativo {
			return &acompanhamentos[i]
		}
	}
	return nil
}
