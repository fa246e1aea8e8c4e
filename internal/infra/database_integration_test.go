//go:build integration

package infra

// Integration tests against a real Postgres via testcontainers.
// Run with: go test -tags integration ./internal/infra/... -v

import (
	"context"
	"testing"
	"time"

	"github.com/driman-systems/fondue/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("fondue_test"),
		tcPostgres.WithUsername("fondue"),
		tcPostgres.WithPassword("fondue"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := NewDatabase(dsn)
	require.NoError(t, err)
	return db
}

func TestMigrationsEnforceSingleOpenRegisterPerOperator(t *testing.T) {
	db := setupPostgres(t)

	usuario := model.Usuario{Username: "operador", PasswordHash: "x", Role: model.RoleUser, Ativo: true}
	require.NoError(t, db.Create(&usuario).Error)

	aberto := model.Caixa{
		Numero:       1,
		ValorInicial: decimal.NewFromInt(50),
		AbertoEm:     time.Now(),
		AbertoPorID:  usuario.ID,
	}
	require.NoError(t, db.Create(&aberto).Error)

	// Second open register for the same operator violates the partial index.
	duplicado := model.Caixa{
		Numero:       2,
		ValorInicial: decimal.NewFromInt(30),
		AbertoEm:     time.Now(),
		AbertoPorID:  usuario.ID,
	}
	assert.Error(t, db.Create(&duplicado).Error)

	// Closing the first frees the slot.
	agora := time.Now()
	valorFinal := decimal.NewFromInt(50)
	aberto.FechadoEm = &agora
	aberto.FechadoPorID = &usuario.ID
	aberto.ValorFinal = &valorFinal
	require.NoError(t, db.Save(&aberto).Error)

	duplicado.Numero = 3
	assert.NoError(t, db.Create(&duplicado).Error)
}

func TestSequencesAreMonotonic(t *testing.T) {
	db := setupPostgres(t)

	var primeiro, segundo int
	require.NoError(t, db.Raw("SELECT nextval('caixas_numero_seq')").Scan(&primeiro).Error)
	require.NoError(t, db.Raw("SELECT nextval('caixas_numero_seq')").Scan(&segundo).Error)
	assert.Equal(t, primeiro+1, segundo)

	require.NoError(t, db.Raw("SELECT nextval('pedidos_numero_seq')").Scan(&primeiro).Error)
	require.NoError(t, db.Raw("SELECT nextval('pedidos_numero_seq')").Scan(&segundo).Error)
	assert.Equal(t, primeiro+1, segundo)
}

func TestPaymentMethodCheckConstraint(t *testing.T) {
	db := setupPostgres(t)

	usuario := model.Usuario{Username: "op2", PasswordHash: "x", Role: model.RoleUser, Ativo: true}
	require.NoError(t, db.Create(&usuario).Error)

	caixa := model.Caixa{Numero: 10, ValorInicial: decimal.Zero, AbertoEm: time.Now(), AbertoPorID: usuario.ID}
	require.NoError(t, db.Create(&caixa).Error)

	pedido := model.Pedido{
		Numero:   10,
		Subtotal: decimal.NewFromInt(10),
		Desconto: decimal.Zero,
		Total:    decimal.NewFromInt(10),
		CaixaID:  caixa.ID,
	}
	require.NoError(t, db.Create(&pedido).Error)

	valido := model.Pagamento{Metodo: model.MetodoPix, Valor: decimal.NewFromInt(10), PedidoID: pedido.ID, CaixaID: caixa.ID}
	assert.NoError(t, db.Create(&valido).Error)

	invalido := model.Pagamento{Metodo: "CHEQUE", Valor: decimal.NewFromInt(10), PedidoID: pedido.ID, CaixaID: caixa.ID}
	assert.Error(t, db.Create(&invalido).Error)
}
