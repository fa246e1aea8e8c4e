package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MetodoPagamento is the closed set of accepted payment methods. Checkout
// rejects anything outside this set; the column carries a CHECK constraint
// so the aggregation layer never sees an unknown bucket.
type MetodoPagamento string

const (
	MetodoDinheiro MetodoPagamento = "DINHEIRO"
	MetodoPix      MetodoPagamento = "PIX"
	MetodoCredito  MetodoPagamento = "CREDITO"
	MetodoDebito   MetodoPagamento = "DEBITO"
)

// Metodos lists every method in bucket order, for summary responses.
var Metodos = []MetodoPagamento{MetodoDinheiro, MetodoPix, MetodoCredito, MetodoDebito}

func (m MetodoPagamento) Valido() bool {
	switch m {
	case MetodoDinheiro, MetodoPix, MetodoCredito, MetodoDebito:
		return true
	}
	return false
}

// Pedido is one customer transaction. Immutable once created: there is no
// edit, void or refund flow.
type Pedido struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero      int       `gorm:"uniqueIndex;not null"`
	ClienteNome *string
	Observacoes *string
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Desconto    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CaixaID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time

	Caixa      *Caixa       `gorm:"foreignKey:CaixaID"`
	Itens      []PedidoItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
	Pagamentos []Pagamento  `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

// ItemDetalhes is the denormalized option snapshot stored with each line so
// receipts keep printing correctly after the catalog changes.
type ItemDetalhes struct {
	Chocolate       *string  `json:"chocolate"`
	Acompanhamentos []string `json:"acompanhamentos"`
}

func (d ItemDetalhes) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *ItemDetalhes) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = ItemDetalhes{}
		return nil
	}
	return errors.New("item detalhes: unsupported column type")
}

// PedidoItem is one order line. PrecoUnitario is the server-computed unit
// price (base + variation + toppings) at sale time.
type PedidoItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Detalhes      ItemDetalhes    `gorm:"type:jsonb"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

// Pagamento is one tendered payment. CaixaID duplicates the order's register
// on purpose (register summaries aggregate payments directly); both columns
// are written in the same transaction from the same resolved register.
type Pagamento struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Metodo    MetodoPagamento `gorm:"type:varchar(10);not null"`
	Valor     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PedidoID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	CaixaID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time
}
