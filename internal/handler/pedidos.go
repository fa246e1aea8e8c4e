package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/driman-systems/fondue/internal/apierror"
	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Listar godoc
// @Summary Lista os pedidos de um caixa com filtros de busca e período
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param caixaAtual query bool false "Usa o caixa aberto do operador"
// @Param caixaId query string false "Caixa específico"
// @Param q query string false "Busca por id, cliente ou produto"
// @Param from query string false "Início (RFC3339)"
// @Param to query string false "Fim (RFC3339)"
// @Success 200 {object} dto.ListaPedidosResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros inválidos: "+err.Error()))
		return
	}
	usuarioID, ok := usuarioDoToken(c)
	if !ok {
		return
	}

	resp, err := h.svc.Listar(c.Request.Context(), usuarioID, filter)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEscopoCaixa), errors.Is(err, service.ErrIDInvalido):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		case errors.Is(err, service.ErrCaixaNaoEncontrado):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar os pedidos"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Obter(c *gin.Context) {
	resp, err := h.svc.Obter(c.Request.Context(), c.Param("id"))
	if err != nil {
		pedidoErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Comanda streams the order ticket PDF.
func (h *PedidosHandler) Comanda(c *gin.Context) {
	pdf, numero, err := h.svc.Comanda(c.Request.Context(), c.Param("id"))
	if err != nil {
		pedidoErro(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=comanda-%d.pdf", numero))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func pedidoErro(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIDInvalido):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrPedidoNaoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao consultar o pedido"))
	}
}
