package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/model"
	"github.com/driman-systems/fondue/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const catalogoCacheKey = "fondue:catalogo:ativos"

type ProdutoService interface {
	// Catalogo lists active products for the POS front, served from the Redis
	// cache when warm. Any write through this service invalidates the cache.
	Catalogo(ctx context.Context) ([]dto.ProdutoResponse, error)
	Listar(ctx context.Context) ([]dto.ProdutoResponse, error)
	Obter(ctx context.Context, id string) (*dto.ProdutoResponse, error)
	Criar(ctx context.Context, req dto.SalvarProdutoRequest) (*dto.ProdutoResponse, error)
	Atualizar(ctx context.Context, id string, req dto.SalvarProdutoRequest) (*dto.ProdutoResponse, error)
	Desativar(ctx context.Context, id string) error
}

type produtoService struct {
	repo      repository.ProdutoRepository
	acompRepo repository.AcompanhamentoRepository
	rdb       *redis.Client
	cacheTTL  time.Duration
}

// NewProdutoService builds the catalog service. rdb may be nil, which
// disables caching entirely.
func NewProdutoService(repo repository.ProdutoRepository, acompRepo repository.AcompanhamentoRepository, rdb *redis.Client, cacheTTL time.Duration) ProdutoService {
	return &produtoService{repo: repo, acompRepo: acompRepo, rdb: rdb, cacheTTL: cacheTTL}
}

func (s *produtoService) Catalogo(ctx context.Context) ([]dto.ProdutoResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, catalogoCacheKey).Bytes(); err == nil {
			var cached []dto.ProdutoResponse
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	produtos, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		resp = append(resp, toProdutoResponse(&produtos[i], true))
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, catalogoCacheKey, raw, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("failed to cache catalog")
			}
		}
	}
	return resp, nil
}

func (s *produtoService) Listar(ctx context.Context) ([]dto.ProdutoResponse, error) {
	produtos, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		resp = append(resp, toProdutoResponse(&produtos[i], false))
	}
	return resp, nil
}

func (s *produtoService) Obter(ctx context.Context, id string) (*dto.ProdutoResponse, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("id inválido: %s", id)
	}
	p, err := s.repo.FindByID(ctx, pid)
	if err != nil {
		return nil, errors.New("Produto não encontrado")
	}
	resp := toProdutoResponse(p, false)
	return &resp, nil
}

func (s *produtoService) Criar(ctx context.Context, req dto.SalvarProdutoRequest) (*dto.ProdutoResponse, error) {
	acompanhamentos, err := s.resolverAcompanhamentos(ctx, req.AcompanhamentoIDs)
	if err != nil {
		return nil, err
	}

	p := model.Produto{
		Nome:               req.Nome,
		Descricao:          req.Descricao,
		Tipo:               model.TipoProduto(req.Tipo),
		Preco:              req.Preco,
		Ativo:              true,
		UsaChocolate:       req.UsaChocolate,
		UsaAcompanhamentos: req.UsaAcompanhamentos,
		QtdAcompanhamentos: req.QtdAcompanhamentos,
	}
	if req.Ativo != nil {
		p.Ativo = *req.Ativo
	}
	for _, v := range req.Variacoes {
		p.Variacoes = append(p.Variacoes, model.Variacao{Nome: v.Nome, Preco: v.Preco})
	}
	p.Acompanhamentos = acompanhamentos

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	s.invalidarCatalogo(ctx)

	criado, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	resp := toProdutoResponse(criado, false)
	return &resp, nil
}

// Atualizar replaces the product's scalar fields, its variation set and its
// topping links in one transaction, matching the front's full-form submit.
func (s *produtoService) Atualizar(ctx context.Context, id string, req dto.SalvarProdutoRequest) (*dto.ProdutoResponse, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("id inválido: %s", id)
	}
	p, err := s.repo.FindByID(ctx, pid)
	if err != nil {
		return nil, errors.New("Produto não encontrado")
	}

	acompanhamentos, err := s.resolverAcompanhamentos(ctx, req.AcompanhamentoIDs)
	if err != nil {
		return nil, err
	}

	p.Nome = req.Nome
	p.Descricao = req.Descricao
	p.Tipo = model.TipoProduto(req.Tipo)
	p.Preco = req.Preco
	p.UsaChocolate = req.UsaChocolate
	p.UsaAcompanhamentos = req.UsaAcompanhamentos
	p.QtdAcompanhamentos = req.QtdAcompanhamentos
	if req.Ativo != nil {
		p.Ativo = *req.Ativo
	}

	variacoes := make([]model.Variacao, 0, len(req.Variacoes))
	for _, v := range req.Variacoes {
		variacoes = append(variacoes, model.Variacao{Nome: v.Nome, Preco: v.Preco})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		if err := s.repo.ReplaceVariacoesTx(tx, p.ID, variacoes); err != nil {
			return err
		}
		return s.repo.ReplaceAcompanhamentosTx(tx, p, acompanhamentos)
	})
	if txErr != nil {
		return nil, txErr
	}
	s.invalidarCatalogo(ctx)

	atualizado, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	resp := toProdutoResponse(atualizado, false)
	return &resp, nil
}

func (s *produtoService) Desativar(ctx context.Context, id string) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("id inválido: %s", id)
	}
	if _, err := s.repo.FindByID(ctx, pid); err != nil {
		return errors.New("Produto não encontrado")
	}
	if err := s.repo.SoftDelete(ctx, pid); err != nil {
		return err
	}
	s.invalidarCatalogo(ctx)
	return nil
}

func (s *produtoService) resolverAcompanhamentos(ctx context.Context, ids []string) ([]model.Acompanhamento, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	uuids := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("toppingId inválido: %s", raw)
		}
		uuids = append(uuids, id)
	}
	acompanhamentos, err := s.acompRepo.FindByIDs(ctx, uuids)
	if err != nil {
		return nil, err
	}
	if len(acompanhamentos) != len(uuids) {
		return nil, errors.New("Um ou mais acompanhamentos não existem")
	}
	return acompanhamentos, nil
}

func (s *produtoService) invalidarCatalogo(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogoCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate catalog cache")
	}
}

// toProdutoResponse maps a product; somenteAtivos filters inactive toppings
// out of catalog payloads while admin listings see everything.
func toProdutoResponse(p *model.Produto, somenteAtivos bool) dto.ProdutoResponse {
	variations := make([]dto.VariacaoResponse, 0, len(p.Variacoes))
	for _, v := range p.Variacoes {
		variations = append(variations, dto.VariacaoResponse{ID: v.ID.String(), Nome: v.Nome, Preco: v.Preco})
	}

	toppings := make([]dto.AcompanhamentoResponse, 0, len(p.Acompanhamentos))
	for _, a := range p.Acompanhamentos {
		if somenteAtivos && !a.Ativo {
			continue
		}
		toppings = append(toppings, dto.AcompanhamentoResponse{
			ID:         a.ID.String(),
			Nome:       a.Nome,
			PrecoExtra: a.PrecoExtra,
			Ativo:      a.Ativo,
		})
	}

	return dto.ProdutoResponse{
		ID:                 p.ID.String(),
		Nome:               p.Nome,
		Descricao:          p.Descricao,
		Tipo:               string(p.Tipo),
		Preco:              p.Preco,
		Ativo:              p.Ativo,
		UsaChocolate:       p.UsaChocolate,
		UsaAcompanhamentos: p.UsaAcompanhamentos,
		QtdAcompanhamentos: p.QtdAcompanhamentos,
		Variacoes:          variations,
		Acompanhamentos:    toppings,
	}
}
