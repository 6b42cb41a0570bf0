package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"timetracker/apperr"
	"timetracker/config"
	"timetracker/export"
	"timetracker/report"
	"timetracker/response"
	"timetracker/tracker"
	"timetracker/week"
)

type ReportsHandler struct {
	config  *config.Config
	tracker *tracker.Service
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

func NewReportsHandler(cfg *config.Config, svc *tracker.Service, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{
		config:  cfg,
		tracker: svc,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// query reads either start/end or month/year, defaulting to the current month.
func (h *ReportsHandler) query(r *http.Request) (tracker.WorkloadQuery, error) {
	q := r.URL.Query()
	out := tracker.WorkloadQuery{Start: q.Get("start"), End: q.Get("end"), Client: q.Get("client")}
	if out.Start != "" || out.End != "" {
		if out.Start == "" || out.End == "" {
			return out, apperr.Clone(apperr.ErrValidation, "start and end must be given together")
		}
		return out, nil
	}

	now := h.tracker.Now()
	year, month := now.Year(), now.Month()
	if raw := q.Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return out, apperr.Clone(apperr.ErrValidation, "invalid month")
		}
		month = time.Month(m)
	}
	if raw := q.Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 2100 {
			return out, apperr.Clone(apperr.ErrValidation, "invalid year")
		}
		year = y
	}
	first, last := week.MonthRange(year, month)
	out.Start, out.End = week.Key(first), week.Key(last)
	return out, nil
}

func (h *ReportsHandler) summary(r *http.Request) (*report.Summary, error) {
	user, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	q, err := h.query(r)
	if err != nil {
		return nil, err
	}
	return h.tracker.Workload(r.Context(), user, q)
}

func (h *ReportsHandler) Workload(w http.ResponseWriter, r *http.Request) {
	s, err := h.summary(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, s)
}

func (h *ReportsHandler) WorkloadCSV(w http.ResponseWriter, r *http.Request) {
	s, err := h.summary(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	body, err := h.csv.Render(s.Datasets()...)
	if err != nil {
		h.logger.Error("render workload csv", zap.Error(err))
		response.Error(w, err)
		return
	}
	attach(w, "text/csv", fmt.Sprintf("workload_%s_%s.csv", s.Start, s.End), body)
}

func (h *ReportsHandler) WorkloadPDF(w http.ResponseWriter, r *http.Request) {
	s, err := h.summary(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	title := fmt.Sprintf("Workload %s to %s", s.Start, s.End)
	body, err := h.pdf.Render(title, s.Datasets()...)
	if err != nil {
		h.logger.Error("render workload pdf", zap.Error(err))
		response.Error(w, err)
		return
	}
	attach(w, "application/pdf", fmt.Sprintf("workload_%s_%s.pdf", s.Start, s.End), body)
}

func attach(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
