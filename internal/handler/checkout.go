package handler

import (
	"errors"
	"net/http"

	"github.com/driman-systems/fondue/internal/apierror"
	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct{ svc service.CheckoutService }

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Checkout godoc
// @Summary Finaliza uma venda: pedido, itens e pagamentos em uma transação
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CheckoutRequest true "Venda"
// @Success 201 {object} dto.CheckoutResponse
// @Failure 400 {object} apierror.APIError
// @Failure 400 {object} apierror.PagamentoError
// @Router /v1/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioDoToken(c)
	if !ok {
		return
	}

	resp, err := h.svc.Checkout(c.Request.Context(), usuarioID, req)
	if err != nil {
		var pagErr *service.ErrPagamentoNaoConfere
		if errors.As(err, &pagErr) {
			c.JSON(http.StatusBadRequest, apierror.NewPagamento(
				pagErr.Error(), pagErr.Subtotal, pagErr.Desconto, pagErr.Total, pagErr.Pago))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}
