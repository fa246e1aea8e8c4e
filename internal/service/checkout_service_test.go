package service

import (
	"context"
	"testing"
	"time"

	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func setupCheckout(t *testing.T) (CheckoutService, *fakeCaixaRepo, *fakePedidoRepo, *model.Produto, uuid.UUID) {
	t.Helper()

	caixaRepo := newFakeCaixaRepo()
	produtoRepo := newFakeProdutoRepo()
	pedidoRepo := newFakePedidoRepo(caixaRepo)

	usuarioID := uuid.New()
	require.NoError(t, caixaRepo.CreateTx(context.Background(), nil, &model.Caixa{
		Numero:       1,
		ValorInicial: dec("50.00"),
		AbertoEm:     time.Now(),
		AbertoPorID:  usuarioID,
	}))

	fondue := produtoRepo.add(&model.Produto{
		Nome:               "Fondue de Chocolate",
		Tipo:               model.TipoFondue,
		Preco:              dec("35.00"),
		Ativo:              true,
		UsaChocolate:       true,
		UsaAcompanhamentos: true,
		QtdAcompanhamentos: 2,
		Variacoes: []model.Variacao{
			{ID: uuid.New(), Nome: "Ao Leite", Preco: dec("0")},
			{ID: uuid.New(), Nome: "Belga", Preco: dec("5.00")},
		},
		Acompanhamentos: []model.Acompanhamento{
			{ID: uuid.New(), Nome: "Morango", PrecoExtra: dec("3.00"), Ativo: true},
			{ID: uuid.New(), Nome: "Uva", PrecoExtra: dec("2.00"), Ativo: true},
			{ID: uuid.New(), Nome: "Banana", PrecoExtra: dec("1.00"), Ativo: false},
		},
	})

	svc := NewCheckoutService(pedidoRepo, produtoRepo, caixaRepo)
	return svc, caixaRepo, pedidoRepo, fondue, usuarioID
}

func TestCheckoutHappyPath(t *testing.T) {
	svc, _, pedidoRepo, fondue, usuarioID := setupCheckout(t)

	// 35 + 5 (Belga) + 3 + 2 = 45 por unidade, 2 unidades = 90
	req := dto.CheckoutRequest{
		Items: []dto.CheckoutItem{{
			ProdutoID:       fondue.ID.String(),
			Quantidade:      2,
			VariacaoNome:    ptr("Belga"),
			Acompanhamentos: []string{"Morango", "Uva"},
		}},
		Pagamentos: []dto.PagamentoRequest{
			{Metodo: "DINHEIRO", Valor: dec("50.00")},
			{Metodo: "PIX", Valor: dec("40.00")},
		},
		ClienteNome: ptr("Maria"),
	}

	resp, err := svc.Checkout(context.Background(), usuarioID, req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Numero)
	assert.True(t, resp.Total.Equal(dec("90.00")))

	pedido, err := pedidoRepo.FindByID(context.Background(), uuid.MustParse(resp.OrderID))
	require.NoError(t, err)
	require.Len(t, pedido.Itens, 1)
	assert.True(t, pedido.Itens[0].PrecoUnitario.Equal(dec("45.00")))
	assert.Equal(t, "Belga", *pedido.Itens[0].Detalhes.Chocolate)
	assert.ElementsMatch(t, []string{"Morango", "Uva"}, pedido.Itens[0].Detalhes.Acompanhamentos)
	require.Len(t, pedido.Pagamentos, 2)
	assert.Equal(t, pedido.CaixaID, pedido.Pagamentos[0].CaixaID)
}

func TestCheckoutComDesconto(t *testing.T) {
	svc, _, _, fondue, usuarioID := setupCheckout(t)

	// subtotal 100 (2 × Belga sem acompanhamentos = 2 × 40 = 80... usa valor direto)
	req := dto.CheckoutRequest{
		Items: []dto.CheckoutItem{{
			ProdutoID:    fondue.ID.String(),
			Quantidade:   2,
			VariacaoNome: ptr("Belga"),
		}},
		Desconto: &dto.DescontoSpec{Tipo: "percent", Valor: dec("10")},
		Pagamentos: []dto.PagamentoRequest{
			{Metodo: "CREDITO", Valor: dec("72.00")},
		},
	}

	resp, err := svc.Checkout(context.Background(), usuarioID, req)
	require.NoError(t, err)
	// 2 × 40 = 80, −10% = 72
	assert.True(t, resp.Total.Equal(dec("72.00")))
}

func TestCheckoutPagamentoNaoConfere(t *testing.T) {
	svc, _, pedidoRepo, fondue, usuarioID := setupCheckout(t)

	req := dto.CheckoutRequest{
		Items: []dto.CheckoutItem{{
			ProdutoID:  fondue.ID.String(),
			Quantidade: 1,
		}},
		Pagamentos: []dto.PagamentoRequest{
			{Metodo: "DINHEIRO", Valor: dec("30.00")},
		},
	}

	_, err := svc.Checkout(context.Background(), usuarioID, req)
	var pagErr *ErrPagamentoNaoConfere
	require.ErrorAs(t, err, &pagErr)
	assert.True(t, pagErr.Total.Equal(dec("35.00")))
	assert.True(t, pagErr.Pago.Equal(dec("30.00")))
	assert.Empty(t, pedidoRepo.pedidos, "nenhum pedido deve persistir quando o pagamento não confere")
}

func TestCheckoutSemCaixaAberto(t *testing.T) {
	svc, _, _, fondue, _ := setupCheckout(t)

	req := dto.CheckoutRequest{
		Items:      []dto.CheckoutItem{{ProdutoID: fondue.ID.String(), Quantidade: 1}},
		Pagamentos: []dto.PagamentoRequest{{Metodo: "PIX", Valor: dec("35.00")}},
	}

	_, err := svc.Checkout(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrSemCaixaAberto)
}

func TestCheckoutCaixaFechadoDuranteCheckoutFalha(t *testing.T) {
	svc, caixaRepo, pedidoRepo, fondue, usuarioID := setupCheckout(t)

	// Outra sessão fecha o caixa depois do lookup inicial, antes da
	// transação do checkout.
	caixaRepo.aoRevalidar = func() {
		for _, c := range caixaRepo.caixas {
			if c.AbertoPorID == usuarioID && c.Aberto() {
				agora := time.Now()
				c.FechadoEm = &agora
			}
		}
	}

	req := dto.CheckoutRequest{
		Items:      []dto.CheckoutItem{{ProdutoID: fondue.ID.String(), Quantidade: 1}},
		Pagamentos: []dto.PagamentoRequest{{Metodo: "PIX", Valor: dec("35.00")}},
	}
	_, err := svc.Checkout(context.Background(), usuarioID, req)
	assert.ErrorIs(t, err, ErrSemCaixaAberto)
	assert.Empty(t, pedidoRepo.pedidos, "caixa fechado não pode receber pedidos")
	assert.Empty(t, caixaRepo.pagamentos, "caixa fechado não pode receber pagamentos")
}

func TestCheckoutRejeitaOpcoesInvalidas(t *testing.T) {
	svc, _, _, fondue, usuarioID := setupCheckout(t)

	tests := []struct {
		name string
		item dto.CheckoutItem
	}{
		{"variação inexistente", dto.CheckoutItem{
			ProdutoID: fondue.ID.String(), Quantidade: 1, VariacaoNome: ptr("Branco"),
		}},
		{"acompanhamento inativo", dto.CheckoutItem{
			ProdutoID: fondue.ID.String(), Quantidade: 1, Acompanhamentos: []string{"Banana"},
		}},
		{"acompanhamentos acima do limite", dto.CheckoutItem{
			ProdutoID: fondue.ID.String(), Quantidade: 1,
			Acompanhamentos: []string{"Morango", "Uva", "Morango"},
		}},
		{"produto desconhecido", dto.CheckoutItem{
			ProdutoID: uuid.NewString(), Quantidade: 1,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CheckoutRequest{
				Items:      []dto.CheckoutItem{tt.item},
				Pagamentos: []dto.PagamentoRequest{{Metodo: "PIX", Valor: dec("35.00")}},
			}
			_, err := svc.Checkout(context.Background(), usuarioID, req)
			assert.Error(t, err)
		})
	}
}

func TestCheckoutIgnoraPrecoDoCliente(t *testing.T) {
	svc, _, _, fondue, usuarioID := setupCheckout(t)

	// Front manda unitPrice adulterado; o servidor recalcula e cobra 35.
	req := dto.CheckoutRequest{
		Items: []dto.CheckoutItem{{
			ProdutoID:     fondue.ID.String(),
			Quantidade:    1,
			PrecoUnitario: dec("0.01"),
		}},
		Pagamentos: []dto.PagamentoRequest{{Metodo: "DEBITO", Valor: dec("35.00")}},
	}

	resp, err := svc.Checkout(context.Background(), usuarioID, req)
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("35.00")))
}
