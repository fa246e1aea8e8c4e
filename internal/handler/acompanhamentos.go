package handler

import (
	"errors"
	"net/http"

	"github.com/driman-systems/fondue/internal/apierror"
	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/service"

	"github.com/gin-gonic/gin"
)

type AcompanhamentosHandler struct{ svc service.AcompanhamentoService }

func NewAcompanhamentosHandler(svc service.AcompanhamentoService) *AcompanhamentosHandler {
	return &AcompanhamentosHandler{svc: svc}
}

func (h *AcompanhamentosHandler) Listar(c *gin.Context) {
	somenteAtivos := c.Query("ativos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), somenteAtivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar acompanhamentos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AcompanhamentosHandler) Criar(c *gin.Context) {
	var req dto.SalvarAcompanhamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrAcompanhamentoDuplicado) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AcompanhamentosHandler) Atualizar(c *gin.Context) {
	var req dto.SalvarAcompanhamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, service.ErrAcompanhamentoDuplicado) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AcompanhamentosHandler) Desativar(c *gin.Context) {
	if err := h.svc.Desativar(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
