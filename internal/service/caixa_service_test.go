package service

import (
	"context"
	"errors"
	"testing"

	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaixaSvc(repo *fakeCaixaRepo) CaixaService {
	return NewCaixaService(repo, nil, "")
}

func TestAbrirCaixa(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := newCaixaSvc(repo)
	usuarioID := uuid.New()

	resp, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{InitialCash: dec("50.00")})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Numero)

	status, err := svc.Status(context.Background(), usuarioID)
	require.NoError(t, err)
	assert.True(t, status.IsOpen)
	require.NotNil(t, status.CaixaNumber)
	assert.Equal(t, 1, *status.CaixaNumber)
}

func TestAbrirCaixaDuplicadoFalha(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := newCaixaSvc(repo)
	usuarioID := uuid.New()

	_, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{InitialCash: dec("50.00")})
	require.NoError(t, err)

	_, err = svc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{InitialCash: dec("30.00")})
	assert.ErrorIs(t, err, ErrCaixaJaAberto)
}

func TestAbrirCaixaOutroOperadorIndependente(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := newCaixaSvc(repo)

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{InitialCash: dec("50.00")})
	require.NoError(t, err)

	resp, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{InitialCash: dec("20.00")})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Numero)
}

func TestFecharCaixaCalculaValorFinal(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := newCaixaSvc(repo)
	usuarioID := uuid.New()

	aberto, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{InitialCash: dec("50.00")})
	require.NoError(t, err)
	caixaID := uuid.MustParse(aberto.ID)

	repo.pagamentos = append(repo.pagamentos,
		model.Pagamento{CaixaID: caixaID, Metodo: model.MetodoDinheiro, Valor: dec("120.00")},
		model.Pagamento{CaixaID: caixaID, Metodo: model.MetodoPix, Valor: dec("80.00")},
		model.Pagamento{CaixaID: caixaID, Metodo: model.MetodoCredito, Valor: dec("30.00")},
	)

	resp, err := svc.Fechar(context.Background(), usuarioID, dto.FecharCaixaRequest{})
	require.NoError(t, err)
	// 50 inicial + 230 pagos
	assert.True(t, resp.ValorFinal.Equal(dec("280.00")))
	assert.Nil(t, resp.Variacao)

	status, err := svc.Status(context.Background(), usuarioID)
	require.NoError(t, err)
	assert.False(t, status.IsOpen)
	assert.Nil(t, status.CaixaNumber)
}

func TestFecharCaixaSemAbertoFalha(t *testing.T) {
	svc := newCaixaSvc(newFakeCaixaRepo())
	_, err := svc.Fechar(context.Background(), uuid.New(), dto.FecharCaixaRequest{})
	assert.ErrorIs(t, err, ErrSemCaixaAberto)
}

func TestFecharCaixaComContagemGeraVariacao(t *testing.T) {
	tests := []struct {
		name      string
		contado   string
		wantClass string
		wantDiff  string
	}{
		{"contagem exata", "280.00", "normal", "0"},
		{"dentro de 1 por cento", "278.00", "normal", "-2.00"},
		{"dentro de 5 por cento", "270.00", "atencao", "-10.00"},
		{"acima de 5 por cento", "200.00", "critico", "-80.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeCaixaRepo()
			svc := newCaixaSvc(repo)
			usuarioID := uuid.New()

			aberto, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{InitialCash: dec("50.00")})
			require.NoError(t, err)
			repo.pagamentos = append(repo.pagamentos, model.Pagamento{
				CaixaID: uuid.MustParse(aberto.ID), Metodo: model.MetodoDinheiro, Valor: dec("230.00"),
			})

			contado := dec(tt.contado)
			resp, err := svc.Fechar(context.Background(), usuarioID, dto.FecharCaixaRequest{CountedCash: &contado})
			require.NoError(t, err)

			// Persisted final cash stays theoretical regardless of the count.
			assert.True(t, resp.ValorFinal.Equal(dec("280.00")))
			require.NotNil(t, resp.Variacao)
			assert.Equal(t, tt.wantClass, resp.Variacao.Class)
			assert.True(t, resp.Variacao.Diferenca.Equal(dec(tt.wantDiff)),
				"diferença: got %s, want %s", resp.Variacao.Diferenca, tt.wantDiff)
		})
	}
}

func TestObterCaixaPorID(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := newCaixaSvc(repo)
	usuarioID := uuid.New()

	resp, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{InitialCash: dec("50.00")})
	require.NoError(t, err)

	item, err := svc.Obter(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, item.ID)
	assert.Equal(t, 1, item.Numero)
	assert.True(t, dec("50.00").Equal(item.ValorInicial))
	assert.Nil(t, item.FechadoEm)

	_, err = svc.Obter(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrCaixaNaoEncontrado)

	_, err = svc.Obter(context.Background(), "nao-e-uuid")
	assert.ErrorIs(t, err, ErrIDInvalido)
}

func TestObterCaixaPropagaErroDeStorage(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := newCaixaSvc(repo)

	falha := errors.New("connection refused")
	repo.errFindByID = falha

	_, err := svc.Obter(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, falha)
	assert.NotErrorIs(t, err, ErrCaixaNaoEncontrado)

	_, err = svc.Resumo(context.Background(), uuid.New(), uuid.NewString())
	assert.ErrorIs(t, err, falha)
}

func TestResumoCaixa(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := newCaixaSvc(repo)
	usuarioID := uuid.New()

	aberto, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{InitialCash: dec("100.00")})
	require.NoError(t, err)
	caixaID := uuid.MustParse(aberto.ID)

	repo.pagamentos = append(repo.pagamentos,
		model.Pagamento{CaixaID: caixaID, Metodo: model.MetodoDinheiro, Valor: dec("40.00")},
		model.Pagamento{CaixaID: caixaID, Metodo: model.MetodoDinheiro, Valor: dec("10.00")},
		model.Pagamento{CaixaID: caixaID, Metodo: model.MetodoDebito, Valor: dec("25.00")},
	)

	resumo, err := svc.Resumo(context.Background(), usuarioID, "")
	require.NoError(t, err)
	assert.True(t, resumo.Totals.Paid.Equal(dec("75.00")))
	assert.True(t, resumo.Totals.ByMethod.Dinheiro.Equal(dec("50.00")))
	assert.True(t, resumo.Totals.ByMethod.Debito.Equal(dec("25.00")))
	assert.True(t, resumo.Totals.ByMethod.Pix.IsZero())
	assert.True(t, resumo.TheoreticalFinalCash.Equal(dec("175.00")))
}

func TestResumoSemCaixaAberto(t *testing.T) {
	svc := newCaixaSvc(newFakeCaixaRepo())
	_, err := svc.Resumo(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, ErrSemCaixaAberto)
}

func TestHistoricoIncluiCaixasFechados(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := newCaixaSvc(repo)
	usuarioID := uuid.New()

	_, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{InitialCash: dec("50.00")})
	require.NoError(t, err)
	_, err = svc.Fechar(context.Background(), usuarioID, dto.FecharCaixaRequest{})
	require.NoError(t, err)

	items, total, err := svc.Historico(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.NotNil(t, items[0].FechadoEm)
	require.NotNil(t, items[0].ValorFinal)
	assert.True(t, items[0].ValorFinal.Equal(dec("50.00")))
}

func TestCheckoutEntreAberturaEFechamento(t *testing.T) {
	caixaRepo := newFakeCaixaRepo()
	produtoRepo := newFakeProdutoRepo()
	pedidoRepo := newFakePedidoRepo(caixaRepo)
	caixaSvc := newCaixaSvc(caixaRepo)
	checkoutSvc := NewCheckoutService(pedidoRepo, produtoRepo, caixaRepo)

	usuarioID := uuid.New()
	_, err := caixaSvc.Abrir(context.Background(), usuarioID, dto.AbrirCaixaRequest{InitialCash: dec("50.00")})
	require.NoError(t, err)

	bebida := produtoRepo.add(&model.Produto{
		Nome:  "Suco de Uva",
		Tipo:  model.TipoBebida,
		Preco: dec("8.00"),
		Ativo: true,
	})

	_, err = checkoutSvc.Checkout(context.Background(), usuarioID, dto.CheckoutRequest{
		Items:      []dto.CheckoutItem{{ProdutoID: bebida.ID.String(), Quantidade: 3}},
		Pagamentos: []dto.PagamentoRequest{{Metodo: "PIX", Valor: dec("24.00")}},
	})
	require.NoError(t, err)

	resp, err := caixaSvc.Fechar(context.Background(), usuarioID, dto.FecharCaixaRequest{})
	require.NoError(t, err)
	assert.True(t, resp.ValorFinal.Equal(dec("74.00")))

	// A closed register refuses further sales.
	_, err = checkoutSvc.Checkout(context.Background(), usuarioID, dto.CheckoutRequest{
		Items:      []dto.CheckoutItem{{ProdutoID: bebida.ID.String(), Quantidade: 1}},
		Pagamentos: []dto.PagamentoRequest{{Metodo: "PIX", Valor: dec("8.00")}},
	})
	assert.ErrorIs(t, err, ErrSemCaixaAberto)
}
