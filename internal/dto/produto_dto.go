package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type VariacaoRequest struct {
	Nome  string          `json:"name"  validate:"required"`
	Preco decimal.Decimal `json:"price" validate:"min=0"`
}

// SalvarProdutoRequest is used by create and update: the front always sends
// the full product, and variations/topping links are replaced wholesale.
type SalvarProdutoRequest struct {
	Nome               string           `json:"name"        validate:"required"`
	Descricao          *string          `json:"description"`
	Tipo               string           `json:"type"        validate:"required,oneof=FONDUE BEBIDA OUTRO"`
	Preco              decimal.Decimal  `json:"price"       validate:"min=0"`
	Ativo              *bool            `json:"isActive"`
	UsaChocolate       bool             `json:"usaChocolate"`
	UsaAcompanhamentos bool             `json:"usaAcompanhamentos"`
	QtdAcompanhamentos int              `json:"quantidadeAcompanhamentos" validate:"min=0"`
	Variacoes          []VariacaoRequest `json:"variations"  validate:"dive"`
	AcompanhamentoIDs  []string         `json:"toppingIds"  validate:"dive,uuid"`
}

type SalvarAcompanhamentoRequest struct {
	Nome       string          `json:"name"       validate:"required"`
	PrecoExtra decimal.Decimal `json:"precoExtra" validate:"min=0"`
	Ativo      *bool           `json:"ativo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VariacaoResponse struct {
	ID    string          `json:"id"`
	Nome  string          `json:"name"`
	Preco decimal.Decimal `json:"price"`
}

type AcompanhamentoResponse struct {
	ID         string          `json:"id"`
	Nome       string          `json:"name"`
	PrecoExtra decimal.Decimal `json:"precoExtra"`
	Ativo      bool            `json:"ativo"`
}

// ProdutoResponse mirrors the shape the POS front consumes: only active
// toppings are embedded when serving the catalog.
type ProdutoResponse struct {
	ID                 string                   `json:"id"`
	Nome               string                   `json:"name"`
	Descricao          *string                  `json:"description"`
	Tipo               string                   `json:"type"`
	Preco              decimal.Decimal          `json:"price"`
	Ativo              bool                     `json:"isActive"`
	UsaChocolate       bool                     `json:"usaChocolate"`
	UsaAcompanhamentos bool                     `json:"usaAcompanhamentos"`
	QtdAcompanhamentos int                      `json:"quantidadeAcompanhamentos"`
	Variacoes          []VariacaoResponse       `json:"variations"`
	Acompanhamentos    []AcompanhamentoResponse `json:"toppings"`
}
