// Package server exposes the calculator over a JSON HTTP API: the
// presentation layer posts loan parameters and receives KPI summaries,
// schedules, and export downloads.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/cache"
	"github.com/Oldmanrunning/HELOC/pkg/constants"
	"github.com/Oldmanrunning/HELOC/pkg/datetime"
	"github.com/Oldmanrunning/HELOC/pkg/export"
	"github.com/Oldmanrunning/HELOC/pkg/heloc"
	"github.com/Oldmanrunning/HELOC/pkg/mathutil"
	"github.com/Oldmanrunning/HELOC/pkg/presets"
	"go.uber.org/zap"
)

type handler struct {
	logger       *zap.Logger
	generator    *heloc.ScheduleGenerator
	memoizer     *cache.Memoizer
	metrics      *metrics
	maxBodyBytes int64
	version      string
}

// Options configures the HTTP handler.
type Options struct {
	// Memoizer is optional; when nil every request recomputes.
	Memoizer *cache.Memoizer
	// MaxBodyBytes bounds request bodies; non-positive means the default.
	MaxBodyBytes int64
	// Version is reported by /api/version.
	Version string
}

// NewHandler constructs the HTTP handler serving the calculator API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = constants.DefaultMaxBodyBytes
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:       logger,
		generator:    heloc.NewScheduleGenerator(logger),
		memoizer:     opts.Memoizer,
		metrics:      newMetrics(),
		maxBodyBytes: opts.MaxBodyBytes,
		version:      version,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/calculate", h.instrument("calculate", h.handleCalculate))
	mux.HandleFunc("/api/schedule", h.instrument("schedule", h.handleSchedule))
	mux.HandleFunc("/api/export", h.instrument("export", h.handleExport))
	mux.HandleFunc("/api/presets", h.instrument("presets", h.handlePresets))
	mux.HandleFunc("/api/version", h.instrument("version", h.handleVersion))
	mux.Handle("/metrics", h.metrics.handler())
	return mux
}

// drawPayload matches the {month, amount} pairs the presentation layer sends.
type drawPayload struct {
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
}

type loanPayload struct {
	Principal       float64       `json:"principal"`
	AnnualRatePct   float64       `json:"annualRatePct"`
	TermYears       float64       `json:"termYears"`
	PaymentsPerYear int           `json:"paymentsPerYear,omitempty"`
	InterestOnly    bool          `json:"interestOnly,omitempty"`
	StartDate       string        `json:"startDate,omitempty"`
	Draws           []drawPayload `json:"draws,omitempty"`
}

type feesPayload struct {
	Application float64 `json:"application,omitempty"`
	Appraisal   float64 `json:"appraisal,omitempty"`
	Origination float64 `json:"origination,omitempty"`
	Annual      float64 `json:"annual,omitempty"`
	Closing     float64 `json:"closing,omitempty"`
}

type calculateRequest struct {
	loanPayload
	Fees         *feesPayload `json:"fees,omitempty"`
	HomeValue    float64      `json:"homeValue,omitempty"`
	ExistingLoan float64      `json:"existingLoan,omitempty"`
	AltRatePct   *float64     `json:"altRatePct,omitempty"`
}

type exportRequest struct {
	loanPayload
	Format string `json:"format"`
}

type summaryPayload struct {
	MonthlyPayment   float64 `json:"monthlyPayment"`
	TotalInterest    float64 `json:"totalInterest"`
	TotalPaid        float64 `json:"totalPaid"`
	TotalPrincipal   float64 `json:"totalPrincipal"`
	TotalDrawn       float64 `json:"totalDrawn,omitempty"`
	RemainingBalance float64 `json:"remainingBalance"`
	Periods          int     `json:"periods"`
	NextPaymentDue   string  `json:"nextPaymentDue,omitempty"`
}

type comparisonPayload struct {
	Alternative         summaryPayload `json:"alternative"`
	MonthlyPaymentDelta float64        `json:"monthlyPaymentDelta"`
	TotalInterestDelta  float64        `json:"totalInterestDelta"`
}

type calculateResponse struct {
	Summary     summaryPayload     `json:"summary"`
	LoanToValue float64            `json:"loanToValue"`
	TotalFees   float64            `json:"totalFees,omitempty"`
	Comparison  *comparisonPayload `json:"comparison,omitempty"`
	Duration    string             `json:"duration"`
}

type scheduleResponse struct {
	Summary summaryPayload  `json:"summary"`
	Rows    []export.Record `json:"rows"`
	CSV     string          `json:"csv"`
}

func (p loanPayload) terms() (heloc.LoanTerms, []heloc.DrawEvent, error) {
	terms := heloc.LoanTerms{
		Principal:       p.Principal,
		AnnualRatePct:   p.AnnualRatePct,
		TermYears:       p.TermYears,
		PaymentsPerYear: p.PaymentsPerYear,
		InterestOnly:    p.InterestOnly,
	}
	if p.StartDate != "" {
		start, err := datetime.ParseDate(p.StartDate)
		if err != nil {
			return heloc.LoanTerms{}, nil, &heloc.InvalidInputError{
				Field:  "startDate",
				Reason: fmt.Sprintf("unparsable date %q, expected %s", p.StartDate, datetime.DateTimeLayout),
			}
		}
		terms.StartDate = start
	}
	var draws []heloc.DrawEvent
	for _, d := range p.Draws {
		draws = append(draws, heloc.DrawEvent{PeriodIndex: d.Month, Amount: d.Amount})
	}
	return terms, draws, nil
}

func summaryToPayload(s heloc.KPISummary) summaryPayload {
	payload := summaryPayload{
		MonthlyPayment:   s.MonthlyPayment,
		TotalInterest:    s.TotalInterest,
		TotalPaid:        s.TotalPaid,
		TotalPrincipal:   s.TotalPrincipal,
		TotalDrawn:       s.TotalDrawn,
		RemainingBalance: s.RemainingBalance,
		Periods:          s.Periods,
	}
	if s.NextPaymentDue != nil {
		payload.NextPaymentDue = datetime.FormatDate(*s.NextPaymentDue)
	}
	return payload
}

func (h *handler) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		h.metrics.observe(endpoint, recorder.status, time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.decode")
		return false
	}
	return true
}

func (h *handler) generate(r *http.Request, terms heloc.LoanTerms, draws []heloc.DrawEvent) (heloc.Schedule, error) {
	if h.memoizer != nil {
		return h.memoizer.Generate(r.Context(), terms, draws)
	}
	return h.generator.Generate(terms, draws)
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var req calculateRequest
	if !h.decode(w, r, &req) {
		return
	}

	terms, draws, err := req.terms()
	if err != nil {
		h.respondEngineError(w, err, "server.handleCalculate")
		return
	}

	schedule, err := h.generate(r, terms, draws)
	if err != nil {
		h.respondEngineError(w, err, "server.handleCalculate")
		return
	}

	response := calculateResponse{
		Summary:     summaryToPayload(heloc.Summarize(schedule)),
		LoanToValue: mathutil.Round(heloc.LoanToValue(req.Principal, req.ExistingLoan, req.HomeValue) * 100),
	}
	if req.Fees != nil {
		fees := heloc.FeeSchedule{
			Application: req.Fees.Application,
			Appraisal:   req.Fees.Appraisal,
			Origination: req.Fees.Origination,
			Annual:      req.Fees.Annual,
			Closing:     req.Fees.Closing,
		}
		response.TotalFees = fees.Total()
	}
	if req.AltRatePct != nil {
		comparison, err := h.generator.Compare(terms, *req.AltRatePct, draws)
		if err != nil {
			h.respondEngineError(w, err, "server.handleCalculate")
			return
		}
		response.Comparison = &comparisonPayload{
			Alternative:         summaryToPayload(comparison.Alternative),
			MonthlyPaymentDelta: comparison.MonthlyPaymentDelta,
			TotalInterestDelta:  comparison.TotalInterestDelta,
		}
	}
	response.Duration = time.Since(start).String()

	h.logger.Info("calculation served",
		zap.String("op", "server.handleCalculate"),
		zap.Int("periods", response.Summary.Periods),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req loanPayload
	if !h.decode(w, r, &req) {
		return
	}

	terms, draws, err := req.terms()
	if err != nil {
		h.respondEngineError(w, err, "server.handleSchedule")
		return
	}

	schedule, err := h.generate(r, terms, draws)
	if err != nil {
		h.respondEngineError(w, err, "server.handleSchedule")
		return
	}

	csvBytes, err := export.CSV(schedule)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), "server.handleSchedule")
		return
	}

	h.writeJSON(w, http.StatusOK, scheduleResponse{
		Summary: summaryToPayload(heloc.Summarize(schedule)),
		Rows:    export.Records(schedule),
		CSV:     string(csvBytes),
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req exportRequest
	if !h.decode(w, r, &req) {
		return
	}

	terms, draws, err := req.terms()
	if err != nil {
		h.respondEngineError(w, err, "server.handleExport")
		return
	}

	schedule, err := h.generate(r, terms, draws)
	if err != nil {
		h.respondEngineError(w, err, "server.handleExport")
		return
	}
	summary := heloc.Summarize(schedule)
	asOf := time.Now()

	var (
		body        []byte
		contentType string
		filename    string
	)
	switch req.Format {
	case "csv":
		body, err = export.CSV(schedule)
		contentType = "text/csv"
		filename = "amortization_schedule.csv"
	case "json":
		body, err = export.RecordsJSON(schedule)
		contentType = "application/json"
		filename = "amortization_schedule.json"
	case "xlsx":
		body, err = export.XLSX(terms, summary, schedule)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "amortization_schedule.xlsx"
	case "pdf":
		body, err = export.PDF(terms, summary, schedule, asOf)
		contentType = "application/pdf"
		filename = "heloc_summary.pdf"
	case "txt":
		body = []byte(export.ShortReport(terms, summary, asOf))
		contentType = "text/plain"
		filename = "heloc_summary.txt"
	default:
		h.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid export format %q; must be one of csv, json, xlsx, pdf, txt", req.Format),
			"server.handleExport")
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render export: %v", err), "server.handleExport")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write export response",
			zap.String("op", "server.handleExport"),
			zap.Error(err),
		)
	}
}

func (h *handler) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"presets": presets.List(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// respondEngineError maps engine failures onto HTTP statuses: rejected inputs
// are the caller's fault, anything else is ours.
func (h *handler) respondEngineError(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	if heloc.IsInvalidInput(err) {
		status = http.StatusBadRequest
	}
	h.respondError(w, status, err.Error(), op)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
