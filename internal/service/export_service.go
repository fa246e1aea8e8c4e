package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/driman-systems/fondue/internal/infra"
	"github.com/driman-systems/fondue/internal/repository"
)

type ExportService interface {
	// PagamentosCSV exports every payment (optionally scoped to one register)
	// in the semicolon-separated layout spreadsheet tools in pt-BR locales
	// open without an import wizard.
	PagamentosCSV(ctx context.Context, caixaID string) ([]byte, error)
	// CaixasXLSX builds the register history workbook.
	CaixasXLSX(ctx context.Context) ([]byte, error)
}

type exportService struct {
	pedidoRepo repository.PedidoRepository
	caixaRepo  repository.CaixaRepository
}

func NewExportService(pedidoRepo repository.PedidoRepository, caixaRepo repository.CaixaRepository) ExportService {
	return &exportService{pedidoRepo: pedidoRepo, caixaRepo: caixaRepo}
}

func (s *exportService) PagamentosCSV(ctx context.Context, caixaID string) ([]byte, error) {
	rows, err := s.pedidoRepo.ListPagamentosExport(ctx, caixaID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write([]string{"data", "pedido", "caixa", "forma", "valor"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			r.CreatedAt.Format("02/01/2006 15:04"),
			r.PedidoID.String(),
			strconv.Itoa(r.CaixaNumero),
			string(r.Metodo),
			// Decimal comma to match the date locale.
			strings.ReplaceAll(r.Valor.StringFixed(2), ".", ","),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *exportService) CaixasXLSX(ctx context.Context) ([]byte, error) {
	// One page covers a small operation's whole history; revisit if registers
	// ever exceed this.
	caixas, _, err := s.caixaRepo.ListHistorico(ctx, 1, 1000)
	if err != nil {
		return nil, err
	}

	rows := make([]infra.CaixaReportRow, 0, len(caixas))
	for _, c := range caixas {
		sums, err := s.caixaRepo.SumPagamentosPorMetodo(ctx, nil, c.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, infra.CaixaReportRow{
			Caixa:     c,
			PorMetodo: sums,
			TotalPago: somaMetodos(sums),
		})
	}
	return infra.GerarRelatorioCaixasXLSX(rows)
}
