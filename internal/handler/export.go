package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/driman-systems/fondue/internal/apierror"
	"github.com/driman-systems/fondue/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct{ svc service.ExportService }

func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// PagamentosCSV godoc
// @Summary Exporta os pagamentos em CSV (separador ponto e vírgula)
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param caixaId query string false "Restringe a um caixa"
// @Success 200 {string} string "CSV"
// @Router /v1/export/pagamentos [get]
func (h *ExportHandler) PagamentosCSV(c *gin.Context) {
	data, err := h.svc.PagamentosCSV(c.Request.Context(), c.Query("caixaId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao gerar o CSV"))
		return
	}
	filename := fmt.Sprintf("pagamentos-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// CaixasXLSX godoc
// @Summary Exporta o histórico de caixas em XLSX
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {string} string "XLSX"
// @Router /v1/export/caixas [get]
func (h *ExportHandler) CaixasXLSX(c *gin.Context) {
	data, err := h.svc.CaixasXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao gerar o relatório"))
		return
	}
	filename := fmt.Sprintf("caixas-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
