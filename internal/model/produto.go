package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoProduto is the closed set of product types shown on the POS front.
type TipoProduto string

const (
	TipoFondue TipoProduto = "FONDUE"
	TipoBebida TipoProduto = "BEBIDA"
	TipoOutro  TipoProduto = "OUTRO"
)

func (t TipoProduto) Valido() bool {
	switch t {
	case TipoFondue, TipoBebida, TipoOutro:
		return true
	}
	return false
}

// Produto is a sellable catalog item. Fondues carry chocolate variations
// (mutually exclusive) and optional toppings up to QtdAcompanhamentos.
type Produto struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome               string    `gorm:"index;not null"`
	Descricao          *string
	Tipo               TipoProduto     `gorm:"type:varchar(10);not null"`
	Preco              decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Ativo              bool            `gorm:"not null;default:true"`
	UsaChocolate       bool            `gorm:"not null;default:false"`
	UsaAcompanhamentos bool            `gorm:"not null;default:false"`
	QtdAcompanhamentos int             `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Variacoes       []Variacao       `gorm:"foreignKey:ProdutoID;constraint:OnDelete:CASCADE"`
	Acompanhamentos []Acompanhamento `gorm:"many2many:produto_acompanhamentos"`
}

// Variacao is a mutually-exclusive product option (chocolate type) priced as
// a delta over the product's base price.
type Variacao struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string          `gorm:"not null"`
	Preco     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ProdutoID uuid.UUID       `gorm:"type:uuid;index;not null"`
}

// Acompanhamento is an optional topping priced independently of the product.
// Shared across products via the produto_acompanhamentos join table.
type Acompanhamento struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome       string          `gorm:"uniqueIndex;not null"`
	PrecoExtra decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Ativo      bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
