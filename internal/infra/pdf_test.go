package infra

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/driman-systems/fondue/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbreviar(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"curto fica intacto", "Fondue", 22, "Fondue"},
		{"no limite fica intacto", "1234567890", 10, "1234567890"},
		{"longo é cortado com reticências", "Fondue de Chocolate Belga Premium", 22, "Fondue de Chocolate B…"},
		{"corte não parte rune acentuada", "Fondue de Maçã Caramelizada çç", 15, "Fondue de Maçã…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := abreviar(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len([]rune(got)), tt.max)
		})
	}
}

func TestGerarComandaPDFComNomesAcentuados(t *testing.T) {
	nome := "Crêpe de Doce de Leite com Maçã"
	cliente := "João"
	pedido := &model.Pedido{
		Numero:      7,
		CreatedAt:   time.Now(),
		ClienteNome: &cliente,
		Subtotal:    decimal.RequireFromString("35.00"),
		Total:       decimal.RequireFromString("35.00"),
		Itens: []model.PedidoItem{{
			Quantidade:    1,
			PrecoUnitario: decimal.RequireFromString("35.00"),
			Produto:       &model.Produto{Nome: nome},
		}},
		Pagamentos: []model.Pagamento{{Metodo: model.MetodoPix, Valor: decimal.RequireFromString("35.00")}},
	}

	pdf, err := GerarComandaPDF(pedido)
	require.NoError(t, err)
	require.Greater(t, len(pdf), 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
