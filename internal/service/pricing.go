package service

// Pricing core: unit price composition, discount resolution and payment
// reconciliation. Pure decimal arithmetic — every caller (checkout, receipts,
// tests) goes through these, so there is exactly one implementation of the
// money rules.

import (
	"fmt"

	"github.com/driman-systems/fondue/internal/dto"

	"github.com/shopspring/decimal"
)

// epsilonPagamento is the tolerance when comparing tendered payments against
// the order total: 0.01 currency units.
var epsilonPagamento = decimal.New(1, -2)

var cem = decimal.NewFromInt(100)

// PrecoUnitario composes base price + variation delta + topping extras.
// A missing variation or empty topping set contributes zero.
func PrecoUnitario(base decimal.Decimal, variacao decimal.Decimal, extras []decimal.Decimal) decimal.Decimal {
	preco := base.Add(variacao)
	for _, e := range extras {
		preco = preco.Add(e)
	}
	return preco
}

// SubtotalLinha multiplies the unit price by a positive quantity.
func SubtotalLinha(precoUnitario decimal.Decimal, quantidade int) (decimal.Decimal, error) {
	if quantidade <= 0 {
		return decimal.Zero, fmt.Errorf("quantidade inválida: %d", quantidade)
	}
	return precoUnitario.Mul(decimal.NewFromInt(int64(quantidade))), nil
}

// AplicarDesconto resolves the discount spec against the subtotal.
// valor: min(valor, subtotal). percent: valor clamped to [0,100].
// The returned total is max(0, subtotal − desconto) by construction.
func AplicarDesconto(subtotal decimal.Decimal, spec *dto.DescontoSpec) (desconto, total decimal.Decimal) {
	if spec == nil {
		return decimal.Zero, subtotal
	}

	valor := spec.Valor
	if valor.IsNegative() {
		valor = decimal.Zero
	}

	switch spec.Tipo {
	case "percent":
		if valor.GreaterThan(cem) {
			valor = cem
		}
		desconto = subtotal.Mul(valor).Div(cem)
	default: // "valor"
		desconto = valor
		if desconto.GreaterThan(subtotal) {
			desconto = subtotal
		}
	}

	total = subtotal.Sub(desconto)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return desconto, total
}

// SomarPagamentos totals the tendered payments.
func SomarPagamentos(pagamentos []dto.PagamentoRequest) decimal.Decimal {
	pago := decimal.Zero
	for _, p := range pagamentos {
		pago = pago.Add(p.Valor)
	}
	return pago
}

// PagamentoConfere reports whether the tendered sum matches the total within
// the 0.01 tolerance. This check is authoritative server-side, regardless of
// whatever total the front displayed.
func PagamentoConfere(pago, total decimal.Decimal) bool {
	return pago.Sub(total).Abs().LessThanOrEqual(epsilonPagamento)
}
