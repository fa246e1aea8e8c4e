package infra

// Register history report in XLSX: one row per closed register with its
// per-method payment totals and the theoretical final cash.

import (
	"bytes"
	"fmt"

	"github.com/driman-systems/fondue/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// CaixaReportRow is one register plus its aggregated payment totals.
type CaixaReportRow struct {
	Caixa     model.Caixa
	PorMetodo map[model.MetodoPagamento]decimal.Decimal
	TotalPago decimal.Decimal
}

// GerarRelatorioCaixasXLSX builds the register history workbook and returns
// its bytes.
func GerarRelatorioCaixasXLSX(rows []CaixaReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Caixas"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Número", "Aberto em", "Fechado em", "Aberto por",
		"Valor inicial", "Dinheiro", "PIX", "Crédito", "Débito",
		"Total pago", "Valor final",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetRowStyle(sheet, 1, 1, bold)
	}

	for i, row := range rows {
		r := i + 2
		c := row.Caixa

		abertoPor := ""
		if c.AbertoPor != nil {
			abertoPor = c.AbertoPor.Username
		}
		fechadoEm := ""
		if c.FechadoEm != nil {
			fechadoEm = c.FechadoEm.Format("02/01/2006 15:04")
		}
		valorFinal := ""
		if c.ValorFinal != nil {
			valorFinal = c.ValorFinal.StringFixed(2)
		}

		values := []interface{}{
			c.Numero,
			c.AbertoEm.Format("02/01/2006 15:04"),
			fechadoEm,
			abertoPor,
			c.ValorInicial.StringFixed(2),
			row.PorMetodo[model.MetodoDinheiro].StringFixed(2),
			row.PorMetodo[model.MetodoPix].StringFixed(2),
			row.PorMetodo[model.MetodoCredito].StringFixed(2),
			row.PorMetodo[model.MetodoDebito].StringFixed(2),
			row.TotalPago.StringFixed(2),
			valorFinal,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
