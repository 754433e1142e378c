// Package api exposes the grid over HTTP using the DataTables request and
// response protocol.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gridkit/gridexpr/internal/dataset"
	"github.com/gridkit/gridexpr/internal/domain"
	"github.com/gridkit/gridexpr/internal/export"
	"github.com/gridkit/gridexpr/internal/expressions"
	"github.com/gridkit/gridexpr/internal/providers"
	"github.com/gridkit/gridexpr/internal/repository"
	"github.com/gridkit/gridexpr/internal/request"
	"github.com/gridkit/gridexpr/internal/schema"
)

// GridResponse is the DataTables response envelope.
type GridResponse struct {
	Draw            int               `json:"draw"`
	RecordsTotal    int               `json:"recordsTotal"`
	RecordsFiltered int               `json:"recordsFiltered"`
	Data            []domain.Employee `json:"data"`
}

// Handler serves the employee grid and its export endpoint.
type Handler struct {
	repo     repository.EmployeeRepository
	builder  *expressions.Builder[domain.Employee]
	resolver *schema.Resolver
	exporter *export.Service
}

// NewHandler creates the grid HTTP handler.
func NewHandler(repo repository.EmployeeRepository, builder *expressions.Builder[domain.Employee], exporter *export.Service) (*Handler, error) {
	resolver, err := schema.NewResolver(reflect.TypeOf(domain.Employee{}))
	if err != nil {
		return nil, fmt.Errorf("failed to build resolver: %w", err)
	}
	return &Handler{
		repo:     repo,
		builder:  builder,
		resolver: resolver,
		exporter: exporter,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/export"):
		h.handleExport(w, r)
	case r.Method == http.MethodGet:
		h.handleGrid(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleGrid(w http.ResponseWriter, r *http.Request) {
	req, page, err := request.Parse(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.repo.List(r.Context())
	if err != nil {
		log.Printf("Failed to load employees: %v", err)
		http.Error(w, "failed to load records", http.StatusInternalServerError)
		return
	}

	filtered, err := h.applyRequest(records, req)
	if err != nil {
		writeExpressionError(w, err)
		return
	}

	pageRecords, pageInfo := dataset.Paginate(filtered, page.Start, page.Length)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(GridResponse{
		Draw:            page.Draw,
		RecordsTotal:    len(records),
		RecordsFiltered: pageInfo.TotalCount,
		Data:            pageRecords,
	}); err != nil {
		log.Printf("Failed to encode grid response: %v", err)
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req, _, err := request.Parse(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Columns) == 0 {
		http.Error(w, "export requires at least one column", http.StatusBadRequest)
		return
	}

	records, err := h.repo.List(r.Context())
	if err != nil {
		log.Printf("Failed to load employees: %v", err)
		http.Error(w, "failed to load records", http.StatusInternalServerError)
		return
	}

	filtered, err := h.applyRequest(records, req)
	if err != nil {
		writeExpressionError(w, err)
		return
	}

	headers, rows, err := h.renderRows(req.Columns, filtered)
	if err != nil {
		writeExpressionError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "employees."+string(format)))
	if err := h.exporter.Write(w, format, headers, rows); err != nil {
		log.Printf("Failed to write export: %v", err)
	}
}

// applyRequest compiles the request into expressions and applies them to the
// loaded records.
func (h *Handler) applyRequest(records []domain.Employee, req domain.GridRequest) ([]domain.Employee, error) {
	set, err := h.builder.CreateExpressions(req)
	if err != nil {
		return nil, err
	}
	return dataset.Apply(records, set), nil
}

// renderRows projects the filtered records onto the requested columns, in
// column order, using display names as headers.
func (h *Handler) renderRows(columns []domain.Column, records []domain.Employee) ([]string, [][]string, error) {
	props := make([]schema.Property, len(columns))
	headers := make([]string, len(columns))
	for i, col := range columns {
		prop, err := h.resolver.Resolve(col)
		if err != nil {
			return nil, nil, err
		}
		props[i] = prop
		headers[i] = col.Name
	}

	rows := make([][]string, len(records))
	for i, record := range records {
		rv := reflect.ValueOf(record)
		row := make([]string, len(props))
		for j, prop := range props {
			row[j] = renderCell(prop, rv)
		}
		rows[i] = row
	}
	return headers, rows, nil
}

func renderCell(prop schema.Property, record reflect.Value) string {
	v := prop.Value(record)
	if prop.Nullable() {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch value := v.Interface().(type) {
	case time.Time:
		return value.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}

func writeExpressionError(w http.ResponseWriter, err error) {
	var propertyErr *schema.PropertyNotFoundError
	var providerErr *providers.ProviderNotFoundError
	if errors.As(err, &propertyErr) || errors.As(err, &providerErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusUnprocessableEntity)
}
