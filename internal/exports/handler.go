package exports

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contract-portal/contract-portal-backend/internal/contracts"
)

type Handler struct {
	service contracts.Service
}

func NewHandler(service contracts.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/contracts/export", h.ExportContracts)
}

// ExportContracts streams the contract register as xlsx or csv.
func (h *Handler) ExportContracts(c *gin.Context) {
	var status *contracts.ContractStatus
	if s := c.Query("status"); s != "" {
		st := contracts.ContractStatus(s)
		status = &st
	}
	list, err := h.service.ListContracts(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("contracts_%s", time.Now().Format("20060102"))

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		var buf bytes.Buffer
		if err := WriteCSV(&buf, list, DefaultCSVOptions()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if err := WriteExcel(&buf, list, DefaultExcelOptions()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format"})
	}
}
