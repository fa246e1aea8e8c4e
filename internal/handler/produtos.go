package handler

import (
	"net/http"

	"github.com/driman-systems/fondue/internal/apierror"
	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/service"

	"github.com/gin-gonic/gin"
)

type ProdutosHandler struct{ svc service.ProdutoService }

func NewProdutosHandler(svc service.ProdutoService) *ProdutosHandler {
	return &ProdutosHandler{svc: svc}
}

// Catalogo godoc
// @Summary Lista os produtos ativos para o ponto de venda
// @Tags produtos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ProdutoResponse
// @Router /v1/produtos/catalogo [get]
func (h *ProdutosHandler) Catalogo(c *gin.Context) {
	resp, err := h.svc.Catalogo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar o catálogo"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar produtos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) Obter(c *gin.Context) {
	resp, err := h.svc.Obter(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Criar godoc
// @Summary Cadastra um produto com variações e acompanhamentos
// @Tags produtos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SalvarProdutoRequest true "Produto"
// @Success 201 {object} dto.ProdutoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/produtos [post]
func (h *ProdutosHandler) Criar(c *gin.Context) {
	var req dto.SalvarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProdutosHandler) Atualizar(c *gin.Context) {
	var req dto.SalvarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) Desativar(c *gin.Context) {
	if err := h.svc.Desativar(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
