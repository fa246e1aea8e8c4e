package dto

import "github.com/shopspring/decimal"

// ─── Checkout ────────────────────────────────────────────────────────────────

type CheckoutItem struct {
	ProdutoID    string  `json:"productId" validate:"required,uuid"`
	Quantidade   int     `json:"quantity"  validate:"required,gt=0"`
	// PrecoUnitario is what the front displayed. Advisory only: the server
	// recomputes the unit price from the catalog and its value wins.
	PrecoUnitario   decimal.Decimal `json:"unitPrice"`
	VariacaoNome    *string         `json:"variationName"`
	Acompanhamentos []string        `json:"toppings"`
}

// DescontoSpec is the closed discount variant: "valor" (fixed amount) or
// "percent" (0–100).
type DescontoSpec struct {
	Tipo  string          `json:"type"  validate:"required,oneof=valor percent"`
	Valor decimal.Decimal `json:"value" validate:"min=0"`
}

type PagamentoRequest struct {
	Metodo string          `json:"method" validate:"required,oneof=DINHEIRO PIX CREDITO DEBITO"`
	Valor  decimal.Decimal `json:"value"  validate:"required,gt=0"`
}

type CheckoutRequest struct {
	Items       []CheckoutItem     `json:"items"    validate:"required,min=1,dive"`
	Desconto    *DescontoSpec      `json:"discount"`
	Pagamentos  []PagamentoRequest `json:"payments" validate:"required,min=1,dive"`
	ClienteNome *string            `json:"customerName"`
	Observacoes *string            `json:"notes"`
}

type CheckoutResponse struct {
	OrderID string          `json:"orderId"`
	Numero  int             `json:"number"`
	Total   decimal.Decimal `json:"total"`
}

// ─── Listing ─────────────────────────────────────────────────────────────────

// PedidoFilter selects which register's orders to list. CaixaAtual resolves
// the operator's open register; CaixaID targets a specific one.
type PedidoFilter struct {
	CaixaAtual bool   `form:"caixaAtual"`
	CaixaID    string `form:"caixaId"`
	Q          string `form:"q"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type PedidoItemResponse struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Chocolate   *string         `json:"chocolate"`
	Toppings    []string        `json:"toppings"`
}

type PedidoPagamentoResponse struct {
	Method string          `json:"method"`
	Value  decimal.Decimal `json:"value"`
}

type PedidoResponse struct {
	ID           string                    `json:"id"`
	Numero       int                       `json:"number"`
	CreatedAt    string                    `json:"createdAt"`
	CustomerName *string                   `json:"customerName"`
	Notes        *string                   `json:"notes"`
	Subtotal     decimal.Decimal           `json:"subtotal"`
	Desconto     decimal.Decimal           `json:"desconto"`
	Total        decimal.Decimal           `json:"total"`
	Items        []PedidoItemResponse      `json:"items"`
	Payments     []PedidoPagamentoResponse `json:"payments"`
}

type CaixaInfo struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	OpenedAt string `json:"openedAt"`
}

type ListaPedidosResponse struct {
	Caixa  *CaixaInfo       `json:"caixa"`
	Orders []PedidoResponse `json:"orders"`
	Totals TotaisPagamentos `json:"totals"`
}
