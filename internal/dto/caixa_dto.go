package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	InitialCash decimal.Decimal `json:"initialCash" validate:"min=0"`
}

type FecharCaixaRequest struct {
	// CountedCash is the operator's physical count. Used only for variance
	// display — the persisted final cash is always the computed value.
	CountedCash *decimal.Decimal `json:"countedCash" validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AbrirCaixaResponse struct {
	ID     string `json:"id"`
	Numero int    `json:"number"`
}

// VariacaoCaixa reports the difference between counted and theoretical cash.
// Classificacao: "normal" (|diff| ≤ 1%) | "atencao" (≤ 5%) | "critico".
type VariacaoCaixa struct {
	Contado    decimal.Decimal `json:"countedCash"`
	Diferenca  decimal.Decimal `json:"difference"`
	Percentual decimal.Decimal `json:"percent"`
	Class      string          `json:"classification"`
}

type FecharCaixaResponse struct {
	ID         string          `json:"id"`
	Numero     int             `json:"number"`
	ValorFinal decimal.Decimal `json:"finalCash"`
	FechadoEm  string          `json:"closedAt"`
	Variacao   *VariacaoCaixa  `json:"variance,omitempty"`
}

type StatusCaixaResponse struct {
	IsOpen      bool `json:"isOpen"`
	CaixaNumber *int `json:"caixaNumber"`
}

// PorMetodo is the fixed set of payment buckets.
type PorMetodo struct {
	Dinheiro decimal.Decimal `json:"DINHEIRO"`
	Pix      decimal.Decimal `json:"PIX"`
	Credito  decimal.Decimal `json:"CREDITO"`
	Debito   decimal.Decimal `json:"DEBITO"`
}

type TotaisPagamentos struct {
	Paid     decimal.Decimal `json:"paid"`
	ByMethod PorMetodo       `json:"byMethod"`
}

type ResumoCaixaResponse struct {
	CaixaID              string           `json:"caixaId"`
	Numero               int              `json:"number"`
	InitialCash          decimal.Decimal  `json:"initialCash"`
	Totals               TotaisPagamentos `json:"totals"`
	TheoreticalFinalCash decimal.Decimal  `json:"theoreticalFinalCash"`
}

type CaixaHistoricoItem struct {
	ID           string           `json:"id"`
	Numero       int              `json:"number"`
	AbertoEm     string           `json:"openedAt"`
	AbertoPor    string           `json:"openedBy"`
	FechadoEm    *string          `json:"closedAt"`
	ValorInicial decimal.Decimal  `json:"initialCash"`
	ValorFinal   *decimal.Decimal `json:"finalCash"`
}
