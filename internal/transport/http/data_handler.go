package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "safetypulse/internal/errors"
	"safetypulse/internal/exporter"
	appmiddleware "safetypulse/internal/middleware"
	"safetypulse/internal/services"
	api "safetypulse/pkg/contracts/api/v1"
	"safetypulse/pkg/contracts/domain"
)

// maxBreakdownTop bounds the top query parameter
const maxBreakdownTop = 1000

// DataHandler serves the inspection data endpoints
type DataHandler struct {
	service      DataServiceInterface
	loader       SnapshotLoader
	exporter     Exporter
	validator    *appmiddleware.Validator
	params       *appmiddleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service DataServiceInterface, loader SnapshotLoader, exp Exporter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	logger = logger.With(slog.String("component", "data_handler"))
	return &DataHandler{
		service:      service,
		loader:       loader,
		exporter:     exp,
		validator:    appmiddleware.NewValidator(logger, errorHandler),
		params:       appmiddleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.GetStatus)
	r.Post("/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/rows", h.GetRows)
		r.Get("/transactions", h.GetTransactions)
		r.Get("/transactions/{id}", h.GetTransaction)
		r.Get("/conformance", h.GetConformance)
		r.Get("/summary", h.GetSummary)

		r.Route("/breakdown/{field}", func(r chi.Router) {
			r.Use(h.FieldCtx)
			r.Get("/", h.GetBreakdown)
		})
		r.Route("/weights/{field}", func(r chi.Router) {
			r.Use(h.FieldCtx)
			r.Get("/", h.GetWeights)
		})
	})

	r.Get("/export.csv", h.exportAs(exporter.FormatCSV))
	r.Get("/export.xlsx", h.exportAs(exporter.FormatXLSX))

	return r
}

type fieldCtxKey struct{}

// FieldCtx validates the {field} path parameter and stores the parsed field
func (h *DataHandler) FieldCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := api.FieldRequest{Field: chi.URLParam(r, "field")}
		if !h.validator.Check(w, r, p) {
			return
		}
		field, _ := domain.ParseField(p.Field)
		ctx := contextWithField(r.Context(), field)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseRowParams reads and validates the narrowing parameters. Returns false if a response was written.
func (h *DataHandler) parseRowParams(w http.ResponseWriter, r *http.Request) (domain.RowQuery, bool) {
	p := api.RowQueryFromValues(r.URL.Query())
	if !h.validator.Check(w, r, p) {
		return domain.RowQuery{}, false
	}
	return p.Query(), true
}

// handleServiceError maps service sentinels onto API errors
func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WarnContext(r.Context(), "data request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
	)

	switch {
	case errors.Is(err, services.ErrNoSnapshot):
		h.errorHandler.HandleError(w, r, apierrors.ErrNoSnapshot)
	case errors.Is(err, services.ErrTransactionNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrTransactionNotFound)
	case errors.Is(err, services.ErrUnknownField):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("field", err.Error()))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

func success(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	render.JSON(w, r, api.DataResponse{Status: api.StatusSuccess, Data: data, Count: count})
}

// GetStatus handles GET /api/data/status
func (h *DataHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.StatusResponse{Status: api.StatusSuccess, Data: h.service.Status(r.Context())})
}

// Refresh handles POST /api/data/refresh with a foreground load
func (h *DataHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "manual refresh requested",
		slog.String("request_id", middleware.GetReqID(r.Context())))

	if err := h.loader.Load(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.StatusResponse{Status: api.StatusSuccess, Data: h.service.Status(r.Context())})
}

// GetRows handles GET /api/data/rows
func (h *DataHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseRowParams(w, r)
	if !ok {
		return
	}

	rows, err := h.service.Rows(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	success(w, r, rows, len(rows))
}

// GetTransactions handles GET /api/data/transactions
func (h *DataHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseRowParams(w, r)
	if !ok {
		return
	}

	sp := api.TransactionSortFromValues(r.URL.Query())
	if !h.validator.Check(w, r, sp) {
		return
	}

	groups, err := h.service.Transactions(r.Context(), q, sp.TransactionSort())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	success(w, r, groups, len(groups))
}

// GetTransaction handles GET /api/data/transactions/{id}
func (h *DataHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "id is required"))
		return
	}

	rows, err := h.service.Transaction(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	success(w, r, rows, len(rows))
}

// GetBreakdown handles GET /api/data/breakdown/{field}
func (h *DataHandler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseRowParams(w, r)
	if !ok {
		return
	}
	top, ok := h.params.ValidateInt(w, r, "top", 0, maxBreakdownTop, 0)
	if !ok {
		return
	}

	entries, err := h.service.Breakdown(r.Context(), q, fieldFromContext(r.Context()), top)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	success(w, r, entries, len(entries))
}

// GetWeights handles GET /api/data/weights/{field}
func (h *DataHandler) GetWeights(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseRowParams(w, r)
	if !ok {
		return
	}
	mode, ok := h.params.ValidateEnum(w, r, "mode",
		[]string{string(domain.WeightModeSum), string(domain.WeightModeAverage)}, string(domain.WeightModeSum))
	if !ok {
		return
	}

	field := fieldFromContext(r.Context())
	if domain.WeightMode(mode) == domain.WeightModeAverage {
		averages, err := h.service.WeightAverages(r.Context(), q, field)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}
		success(w, r, averages, len(averages))
		return
	}

	totals, err := h.service.WeightTotals(r.Context(), q, field)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	success(w, r, totals, len(totals))
}

// GetConformance handles GET /api/data/conformance
func (h *DataHandler) GetConformance(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseRowParams(w, r)
	if !ok {
		return
	}

	c, err := h.service.Conformance(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	success(w, r, c, c.AffirmativeCount+c.NegativeCount)
}

// GetSummary handles GET /api/data/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseRowParams(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	success(w, r, summary, summary.TotalEntries)
}

// exportAs handles GET /api/data/export.{csv,xlsx}?kind=rows|transactions
func (h *DataHandler) exportAs(format exporter.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := h.parseRowParams(w, r)
		if !ok {
			return
		}
		kindParam, ok := h.params.ValidateEnum(w, r, "kind",
			[]string{string(exporter.KindRows), string(exporter.KindTransactions)}, string(exporter.KindRows))
		if !ok {
			return
		}
		kind := exporter.Kind(kindParam)

		rows, err := h.service.Rows(r.Context(), q)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := h.exporter.Export(r.Context(), &buf, format, kind, rows); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.exporter.FileName(format, kind)))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		if _, err := buf.WriteTo(w); err != nil {
			h.logger.WarnContext(r.Context(), "export download interrupted",
				slog.String("error", err.Error()))
		}
	}
}
