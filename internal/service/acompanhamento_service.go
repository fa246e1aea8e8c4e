package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/model"
	"github.com/driman-systems/fondue/internal/repository"

	"github.com/google/uuid"
)

// ErrAcompanhamentoDuplicado maps the unique index on topping names.
var ErrAcompanhamentoDuplicado = errors.New("Já existe um acompanhamento com esse nome")

type AcompanhamentoService interface {
	Listar(ctx context.Context, somenteAtivos bool) ([]dto.AcompanhamentoResponse, error)
	Criar(ctx context.Context, req dto.SalvarAcompanhamentoRequest) (*dto.AcompanhamentoResponse, error)
	Atualizar(ctx context.Context, id string, req dto.SalvarAcompanhamentoRequest) (*dto.AcompanhamentoResponse, error)
	Desativar(ctx context.Context, id string) error
}

type acompanhamentoService struct {
	repo repository.AcompanhamentoRepository
}

func NewAcompanhamentoService(repo repository.AcompanhamentoRepository) AcompanhamentoService {
	return &acompanhamentoService{repo: repo}
}

func (s *acompanhamentoService) Listar(ctx context.Context, somenteAtivos bool) ([]dto.AcompanhamentoResponse, error) {
	as, err := s.repo.List(ctx, somenteAtivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AcompanhamentoResponse, 0, len(as))
	for _, a := range as {
		resp = append(resp, toAcompanhamentoResponse(&a))
	}
	return resp, nil
}

func (s *acompanhamentoService) Criar(ctx context.Context, req dto.SalvarAcompanhamentoRequest) (*dto.AcompanhamentoResponse, error) {
	a := model.Acompanhamento{
		Nome:       req.Nome,
		PrecoExtra: req.PrecoExtra,
		Ativo:      true,
	}
	if req.Ativo != nil {
		a.Ativo = *req.Ativo
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrAcompanhamentoDuplicado
		}
		return nil, err
	}
	resp := toAcompanhamentoResponse(&a)
	return &resp, nil
}

func (s *acompanhamentoService) Atualizar(ctx context.Context, id string, req dto.SalvarAcompanhamentoRequest) (*dto.AcompanhamentoResponse, error) {
	aid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("id inválido: %s", id)
	}
	a, err := s.repo.FindByID(ctx, aid)
	if err != nil {
		return nil, errors.New("Acompanhamento não encontrado")
	}

	a.Nome = req.Nome
	a.PrecoExtra = req.PrecoExtra
	if req.Ativo != nil {
		a.Ativo = *req.Ativo
	}
	if err := s.repo.Update(ctx, a); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrAcompanhamentoDuplicado
		}
		return nil, err
	}
	resp := toAcompanhamentoResponse(a)
	return &resp, nil
}

func (s *acompanhamentoService) Desativar(ctx context.Context, id string) error {
	aid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("id inválido: %s", id)
	}
	if _, err := s.repo.FindByID(ctx, aid); err != nil {
		return errors.New("Acompanhamento não encontrado")
	}
	return s.repo.SoftDelete(ctx, aid)
}

func toAcompanhamentoResponse(a *model.Acompanhamento) dto.AcompanhamentoResponse {
	return dto.AcompanhamentoResponse{
		ID:         a.ID.String(),
		Nome:       a.Nome,
		PrecoExtra: a.PrecoExtra,
		Ativo:      a.Ativo,
	}
}
