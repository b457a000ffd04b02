package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type ReportHandler struct {
	service interfaces.ReportService
	logger  logger.Logger
}

func NewReportHandler(service interfaces.ReportService, logger logger.Logger) *ReportHandler {
	return &ReportHandler{service: service, logger: logger}
}

func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/reports/x", h.XReport)
	r.Post("/api/reports/z", h.ZReport)
	r.Get("/api/reports/z", h.ListZReports)
}

func (h *ReportHandler) XReport(w http.ResponseWriter, r *http.Request) {
	x, err := h.service.XReport(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "x_report_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, NewXReportDTO(x))
}

func (h *ReportHandler) ZReport(w http.ResponseWriter, r *http.Request) {
	z, err := h.service.ZReport(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "z_report_failed", err)
		return
	}

	h.logger.Info("z_report_closed", "Sales period closed", logger.RequestID(r.Context()), map[string]interface{}{
		"z_report_id": z.ID,
		"orders":      z.OrderCount,
	})
	writeJSON(w, http.StatusCreated, NewZReportDTO(z))
}

func (h *ReportHandler) ListZReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
				{Field: "limit", Message: "limit must be an integer"},
			})
			return
		}
		limit = n
	}

	closes, err := h.service.ListZReports(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, h.logger, "z_report_list_failed", err)
		return
	}

	out := make([]ZReportDTO, 0, len(closes))
	for _, z := range closes {
		out = append(out, NewZReportDTO(z))
	}
	writeJSON(w, http.StatusOK, out)
}
