package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/model"
	"github.com/driman-systems/fondue/internal/repository"
	"github.com/driman-systems/fondue/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrCaixaJaAberto is returned when the operator already has an open register.
	ErrCaixaJaAberto        = errors.New("Já existe um caixa aberto para o usuário")
	ErrCaixaNaoEncontrado   = errors.New("Caixa não encontrado")
	ErrValorInicialNegativo = errors.New("Valor inicial não pode ser negativo")
)

type CaixaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.AbrirCaixaResponse, error)
	Fechar(ctx context.Context, usuarioID uuid.UUID, req dto.FecharCaixaRequest) (*dto.FecharCaixaResponse, error)
	Status(ctx context.Context, usuarioID uuid.UUID) (*dto.StatusCaixaResponse, error)
	// Resumo aggregates payments for caixaID, or for the operator's open
	// register when caixaID is empty.
	Resumo(ctx context.Context, usuarioID uuid.UUID, caixaID string) (*dto.ResumoCaixaResponse, error)
	Obter(ctx context.Context, caixaID string) (*dto.CaixaHistoricoItem, error)
	Historico(ctx context.Context, page, limit int) ([]dto.CaixaHistoricoItem, int64, error)
}

type caixaService struct {
	repo        repository.CaixaRepository
	dispatcher  *worker.Dispatcher
	reportEmail string
}

// NewCaixaService builds the register lifecycle service. dispatcher may be
// nil (unit tests); reportEmail empty disables closing-summary emails.
func NewCaixaService(repo repository.CaixaRepository, dispatcher *worker.Dispatcher, reportEmail string) CaixaService {
	return &caixaService{repo: repo, dispatcher: dispatcher, reportEmail: reportEmail}
}

// Abrir opens a register for the operator. The check is advisory — the
// partial unique index on open registers is what actually serializes two
// concurrent opens: the loser's insert fails and maps to ErrCaixaJaAberto.
func (s *caixaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.AbrirCaixaResponse, error) {
	if req.InitialCash.IsNegative() {
		return nil, ErrValorInicialNegativo
	}

	if existente, err := s.repo.FindAbertoPorUsuario(ctx, usuarioID); err != nil {
		return nil, err
	} else if existente != nil {
		return nil, ErrCaixaJaAberto
	}

	var caixa model.Caixa
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		caixa = model.Caixa{
			Numero:       numero,
			ValorInicial: req.InitialCash,
			AbertoEm:     time.Now(),
			AbertoPorID:  usuarioID,
		}
		return s.repo.CreateTx(ctx, tx, &caixa)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) || strings.Contains(txErr.Error(), "uni_caixas_aberto_por") {
			return nil, ErrCaixaJaAberto
		}
		return nil, txErr
	}

	return &dto.AbrirCaixaResponse{ID: caixa.ID.String(), Numero: caixa.Numero}, nil
}

// Fechar closes the operator's open register. The row is locked FOR UPDATE
// while the payment sum is read, so a checkout committing concurrently either
// lands before the sum or fails its in-transaction register re-check after
// the close.
// The persisted final cash is always the theoretical value; the operator's
// counted figure only feeds the variance block of the response.
func (s *caixaService) Fechar(ctx context.Context, usuarioID uuid.UUID, req dto.FecharCaixaRequest) (*dto.FecharCaixaResponse, error) {
	var caixa *model.Caixa
	var sums map[model.MetodoPagamento]decimal.Decimal

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		caixa, err = s.repo.FindAbertoPorUsuarioForUpdate(ctx, tx, usuarioID)
		if err != nil {
			return err
		}
		if caixa == nil {
			return ErrSemCaixaAberto
		}

		sums, err = s.repo.SumPagamentosPorMetodo(ctx, tx, caixa.ID)
		if err != nil {
			return err
		}

		totalPago := somaMetodos(sums)
		valorFinal := caixa.ValorInicial.Add(totalPago)
		agora := time.Now()

		caixa.FechadoEm = &agora
		caixa.FechadoPorID = &usuarioID
		caixa.ValorFinal = &valorFinal
		return s.repo.UpdateTx(ctx, tx, caixa)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.FecharCaixaResponse{
		ID:         caixa.ID.String(),
		Numero:     caixa.Numero,
		ValorFinal: *caixa.ValorFinal,
		FechadoEm:  caixa.FechadoEm.UTC().Format(time.RFC3339),
	}
	if req.CountedCash != nil {
		resp.Variacao = calcularVariacao(*req.CountedCash, *caixa.ValorFinal)
	}

	s.enviarResumoFechamento(ctx, caixa, sums, req.CountedCash)

	return resp, nil
}

func (s *caixaService) Status(ctx context.Context, usuarioID uuid.UUID) (*dto.StatusCaixaResponse, error) {
	caixa, err := s.repo.FindAbertoPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return &dto.StatusCaixaResponse{IsOpen: false, CaixaNumber: nil}, nil
	}
	numero := caixa.Numero
	return &dto.StatusCaixaResponse{IsOpen: true, CaixaNumber: &numero}, nil
}

func (s *caixaService) Resumo(ctx context.Context, usuarioID uuid.UUID, caixaID string) (*dto.ResumoCaixaResponse, error) {
	var caixa *model.Caixa
	if caixaID != "" {
		id, err := uuid.Parse(caixaID)
		if err != nil {
			return nil, fmt.Errorf("%w: caixaId %s", ErrIDInvalido, caixaID)
		}
		caixa, err = s.repo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaixaNaoEncontrado
		}
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		caixa, err = s.repo.FindAbertoPorUsuario(ctx, usuarioID)
		if err != nil {
			return nil, err
		}
		if caixa == nil {
			return nil, ErrSemCaixaAberto
		}
	}

	sums, err := s.repo.SumPagamentosPorMetodo(ctx, nil, caixa.ID)
	if err != nil {
		return nil, err
	}
	totalPago := somaMetodos(sums)

	return &dto.ResumoCaixaResponse{
		CaixaID:     caixa.ID.String(),
		Numero:      caixa.Numero,
		InitialCash: caixa.ValorInicial,
		Totals: dto.TotaisPagamentos{
			Paid:     totalPago,
			ByMethod: porMetodo(sums),
		},
		TheoreticalFinalCash: caixa.ValorInicial.Add(totalPago),
	}, nil
}

func (s *caixaService) Obter(ctx context.Context, caixaID string) (*dto.CaixaHistoricoItem, error) {
	id, err := uuid.Parse(caixaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIDInvalido, caixaID)
	}
	caixa, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCaixaNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	item := toCaixaItem(caixa)
	return &item, nil
}

func (s *caixaService) Historico(ctx context.Context, page, limit int) ([]dto.CaixaHistoricoItem, int64, error) {
	caixas, total, err := s.repo.ListHistorico(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.CaixaHistoricoItem, 0, len(caixas))
	for i := range caixas {
		items = append(items, toCaixaItem(&caixas[i]))
	}
	return items, total, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func toCaixaItem(c *model.Caixa) dto.CaixaHistoricoItem {
	item := dto.CaixaHistoricoItem{
		ID:           c.ID.String(),
		Numero:       c.Numero,
		AbertoEm:     c.AbertoEm.UTC().Format(time.RFC3339),
		ValorInicial: c.ValorInicial,
		ValorFinal:   c.ValorFinal,
	}
	if c.AbertoPor != nil {
		item.AbertoPor = c.AbertoPor.Username
	}
	if c.FechadoEm != nil {
		t := c.FechadoEm.UTC().Format(time.RFC3339)
		item.FechadoEm = &t
	}
	return item
}

func somaMetodos(sums map[model.MetodoPagamento]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, m := range model.Metodos {
		total = total.Add(sums[m])
	}
	return total
}

func porMetodo(sums map[model.MetodoPagamento]decimal.Decimal) dto.PorMetodo {
	return dto.PorMetodo{
		Dinheiro: sums[model.MetodoDinheiro],
		Pix:      sums[model.MetodoPix],
		Credito:  sums[model.MetodoCredito],
		Debito:   sums[model.MetodoDebito],
	}
}

// calcularVariacao classifies the counted-vs-theoretical difference:
// normal |pct| ≤ 1, atencao ≤ 5, critico above.
func calcularVariacao(contado, teorico decimal.Decimal) *dto.VariacaoCaixa {
	diff := contado.Sub(teorico)
	var pct decimal.Decimal
	if !teorico.IsZero() {
		pct = diff.Div(teorico).Mul(cem).Round(2)
	}

	abs := pct.Abs()
	class := "critico"
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		class = "normal"
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		class = "atencao"
	}

	return &dto.VariacaoCaixa{Contado: contado, Diferenca: diff, Percentual: pct, Class: class}
}

// enviarResumoFechamento enqueues the closing-summary email. Best effort:
// a queue failure never fails the close.
func (s *caixaService) enviarResumoFechamento(ctx context.Context, caixa *model.Caixa, sums map[model.MetodoPagamento]decimal.Decimal, contado *decimal.Decimal) {
	if s.dispatcher == nil || s.reportEmail == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Caixa Nº %d fechado em %s\n\n", caixa.Numero, caixa.FechadoEm.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Valor inicial: R$ %s\n", caixa.ValorInicial.StringFixed(2))
	for _, m := range model.Metodos {
		fmt.Fprintf(&b, "%s: R$ %s\n", m, sums[m].StringFixed(2))
	}
	fmt.Fprintf(&b, "\nValor final (teórico): R$ %s\n", caixa.ValorFinal.StringFixed(2))
	if contado != nil {
		fmt.Fprintf(&b, "Valor contado: R$ %s\n", contado.StringFixed(2))
	}

	payload := worker.EmailJobPayload{
		ToEmail: s.reportEmail,
		Subject: fmt.Sprintf("Fechamento de caixa Nº %d", caixa.Numero),
		Body:    b.String(),
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Int("caixa", caixa.Numero).Msg("failed to enqueue closing summary email")
	}
}
