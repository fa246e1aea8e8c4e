// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "github.com/shopspring/decimal"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}

// PagamentoError is returned when tendered payments do not reconcile with the
// computed total. The diagnostic totals let the POS front show the operator
// the exact shortfall or excess.
type PagamentoError struct {
	Detail   string          `json:"detail"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Desconto decimal.Decimal `json:"desconto"`
	Total    decimal.Decimal `json:"total"`
	Pago     decimal.Decimal `json:"pago"`
}

func NewPagamento(detail string, subtotal, desconto, total, pago decimal.Decimal) *PagamentoError {
	return &PagamentoError{Detail: detail, Subtotal: subtotal, Desconto: desconto, Total: total, Pago: pago}
}
