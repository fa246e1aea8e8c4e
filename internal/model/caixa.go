package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caixa is a till session: opened by an operator, accumulates payments, then
// closed exactly once. At most one open register per operator — enforced by a
// partial unique index on (aberto_por_id) WHERE fechado_em IS NULL, so two
// concurrent opens race in the database, never in the application.
type Caixa struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero       int             `gorm:"uniqueIndex;not null"`
	ValorInicial decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AbertoEm     time.Time       `gorm:"not null"`
	AbertoPorID  uuid.UUID       `gorm:"type:uuid;not null"`
	// Nil while open. Once set, the register is immutable.
	FechadoEm    *time.Time
	ValorFinal   *decimal.Decimal `gorm:"type:decimal(10,2)"`
	FechadoPorID *uuid.UUID       `gorm:"type:uuid"`

	AbertoPor  *Usuario    `gorm:"foreignKey:AbertoPorID"`
	FechadoPor *Usuario    `gorm:"foreignKey:FechadoPorID"`
	Pedidos    []Pedido    `gorm:"foreignKey:CaixaID"`
	Pagamentos []Pagamento `gorm:"foreignKey:CaixaID"`
}

// Aberto reports whether the register is still open.
func (c *Caixa) Aberto() bool { return c.FechadoEm == nil }
