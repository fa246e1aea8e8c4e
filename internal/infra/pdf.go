package infra

// Comanda (order receipt) generation with go-pdf/fpdf: an A7 thermal-style
// ticket with the order number, line items with their chocolate variation and
// toppings, discount, bold total and the payment breakdown.

import (
	"bytes"
	"fmt"

	"github.com/driman-systems/fondue/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

func qty(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// abreviar trims s to max runes, marking the cut with an ellipsis. Cutting on
// runes keeps accented product names ("Crêpe", "Maçã") intact at the edge.
func abreviar(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// GerarComandaPDF renders the receipt for a finished order and returns the
// PDF bytes, ready to stream to the client or attach to an email.
func GerarComandaPDF(pedido *model.Pedido) ([]byte, error) {
	// 74mm × 105mm ≈ thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Fondue da Casa", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comanda", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Pedido Nº %d", pedido.Numero), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, pedido.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if pedido.ClienteNome != nil && *pedido.ClienteNome != "" {
		pdf.CellFormat(contentW, 4, "Cliente: "+*pedido.ClienteNome, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range pedido.Itens {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		nome = abreviar(nome, 22)
		sub := item.PrecoUnitario.Mul(qty(item.Quantidade))
		pdf.CellFormat(col1, 5, nome, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+sub.StringFixed(2), "", 1, "R", false, 0, "")

		// Option lines under the product, smaller type
		pdf.SetFont("Helvetica", "I", 6)
		if item.Detalhes.Chocolate != nil && *item.Detalhes.Chocolate != "" {
			pdf.CellFormat(contentW, 3.5, "  "+*item.Detalhes.Chocolate, "", 1, "L", false, 0, "")
		}
		for _, a := range item.Detalhes.Acompanhamentos {
			pdf.CellFormat(contentW, 3.5, "  + "+a, "", 1, "L", false, 0, "")
		}
		pdf.SetFont("Helvetica", "", 7)
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	if !pedido.Desconto.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Desconto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-R$ "+pedido.Desconto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "R$ "+pedido.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	for _, pg := range pedido.Pagamentos {
		pdf.CellFormat(col1+col2, 4, "Pago ("+string(pg.Metodo)+"):", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "R$ "+pg.Valor.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Obrigado e volte sempre!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render comanda: %w", err)
	}
	return buf.Bytes(), nil
}
