package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/driman-systems/fondue/internal/apierror"
	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/middleware"
	"github.com/driman-systems/fondue/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre um caixa para o operador autenticado
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCaixaRequest true "Valor inicial"
// @Success 201 {object} dto.AbrirCaixaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		if errors.Is(err, service.ErrCaixaJaAberto) || errors.Is(err, service.ErrValorInicialNegativo) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao abrir o caixa"))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Fechar godoc
// @Summary Fecha o caixa aberto do operador autenticado
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FecharCaixaRequest true "Contagem física (opcional)"
// @Success 200 {object} dto.FecharCaixaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Fechar(c.Request.Context(), usuarioID, req)
	if err != nil {
		if errors.Is(err, service.ErrSemCaixaAberto) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao fechar o caixa"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Status godoc
// @Summary Indica se o operador tem um caixa aberto
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatusCaixaResponse
// @Router /v1/caixa/status [get]
func (h *CaixaHandler) Status(c *gin.Context) {
	usuarioID, ok := usuarioDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Status(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao consultar o caixa"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumo godoc
// @Summary Resumo de pagamentos de um caixa
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param caixaId query string false "Caixa específico; vazio usa o caixa aberto do operador"
// @Success 200 {object} dto.ResumoCaixaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/resumo [get]
func (h *CaixaHandler) Resumo(c *gin.Context) {
	usuarioID, ok := usuarioDoToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Resumo(c.Request.Context(), usuarioID, c.Query("caixaId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSemCaixaAberto), errors.Is(err, service.ErrIDInvalido):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		case errors.Is(err, service.ErrCaixaNaoEncontrado):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("Erro ao consultar o caixa"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Detalhe godoc
// @Summary Detalhe de um caixa pelo id
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do caixa"
// @Success 200 {object} dto.CaixaHistoricoItem
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixa/{id} [get]
func (h *CaixaHandler) Detalhe(c *gin.Context) {
	resp, err := h.svc.Obter(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIDInvalido):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		case errors.Is(err, service.ErrCaixaNaoEncontrado):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("Erro ao consultar o caixa"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historico returns a paginated list of registers, newest first.
func (h *CaixaHandler) Historico(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := h.svc.Historico(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar o histórico"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func usuarioDoToken(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token sem usuário válido"))
		return uuid.Nil, false
	}
	return usuarioID, true
}
