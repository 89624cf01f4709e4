package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/moneyseed/moneyseed-backend/internal/adapter/chartrender"
	"github.com/moneyseed/moneyseed-backend/internal/domain"
	"github.com/moneyseed/moneyseed-backend/internal/usecase/ledger"
	"github.com/moneyseed/moneyseed-backend/internal/usecase/projection"
	"github.com/moneyseed/moneyseed-backend/internal/usecase/schedule"
	"github.com/moneyseed/moneyseed-backend/internal/usecase/stats"
)

// Projection horizons callers may request. The simulator itself does not
// guard its cost, so the API enforces the observed range.
const (
	minProjectionYears = 1
	maxProjectionYears = 30
	defaultProjection  = 10
)

// Aggregation windows the stats endpoint accepts. The aggregator walks one
// expander pass per month in range, so the API bounds the window the same
// way it bounds the projection horizon.
const (
	minStatsMonths     = 1
	maxStatsMonths     = 120
	defaultStatsMonths = 6
)

// Server exposes the projection and scheduling engine over HTTP.
type Server struct {
	investmentRepo domain.InvestmentRepository
	completionRepo domain.CompletionRepository
	clock          domain.Clock
}

// NewServer creates a new HTTP API server instance
func NewServer(investmentRepo domain.InvestmentRepository, completionRepo domain.CompletionRepository, clock domain.Clock) *Server {
	return &Server{
		investmentRepo: investmentRepo,
		completionRepo: completionRepo,
		clock:          clock,
	}
}

type investmentDTO struct {
	ID                string `json:"id"`
	UserID            string `json:"userId"`
	Name              string `json:"name"`
	MonthlyAmount     string `json:"monthlyAmount"`
	PeriodYears       int    `json:"periodYears"`
	AnnualRatePercent string `json:"annualRatePercent"`
	StartDate         string `json:"startDate"`
	InvestmentDays    []int  `json:"investmentDays"`
}

func toInvestmentDTO(inv *domain.Investment) investmentDTO {
	return investmentDTO{
		ID:                inv.ID.String(),
		UserID:            inv.UserID,
		Name:              inv.Name,
		MonthlyAmount:     inv.MonthlyAmount.String(),
		PeriodYears:       inv.PeriodYears,
		AnnualRatePercent: inv.AnnualRatePercent.String(),
		StartDate:         inv.StartDate.Format(domain.ISODateFormat),
		InvestmentDays:    inv.InvestmentDays,
	}
}

type growthPointDTO struct {
	Month      int    `json:"month"`
	Principal  string `json:"principal"`
	TotalAsset string `json:"totalAsset"`
	Profit     string `json:"profit"`
	BreakEven  bool   `json:"breakEven,omitempty"`
}

type milestoneDTO struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Principal  string `json:"principal"`
	TotalAsset string `json:"totalAsset"`
	Profit     string `json:"profit"`
}

type projectionDTO struct {
	Series         []growthPointDTO `json:"series"`
	Milestones     []milestoneDTO   `json:"milestones"`
	BreakEvenMonth int              `json:"breakEvenMonth"` // 0 when never reached
}

// HealthCheck responds to liveness probes.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "healthy"})
}

// ListInvestments handles GET /investments?userId=
func (s *Server) ListInvestments(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	investments, err := s.investmentRepo.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("list investments failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list investments")
		return
	}

	dtos := make([]investmentDTO, 0, len(investments))
	for _, inv := range investments {
		dtos = append(dtos, toInvestmentDTO(inv))
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "ok", Data: dtos})
}

type createInvestmentRequest struct {
	UserID            string `json:"userId"`
	Name              string `json:"name"`
	MonthlyAmount     string `json:"monthlyAmount"`
	PeriodYears       int    `json:"periodYears"`
	AnnualRatePercent string `json:"annualRatePercent"`
	StartDate         string `json:"startDate"`
	InvestmentDays    []int  `json:"investmentDays"`
}

// CreateInvestment handles POST /investments
func (s *Server) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req createInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	amount, err := decimal.NewFromString(req.MonthlyAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid monthlyAmount")
		return
	}

	rate := decimal.Zero
	if req.AnnualRatePercent != "" {
		rate, err = decimal.NewFromString(req.AnnualRatePercent)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid annualRatePercent")
			return
		}
	}

	var startDate time.Time
	if req.StartDate != "" {
		startDate, err = time.Parse(domain.ISODateFormat, req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startDate, want YYYY-MM-DD")
			return
		}
	}

	inv, err := domain.NewInvestment(req.UserID, req.Name, amount, req.PeriodYears, rate, startDate, req.InvestmentDays, s.clock.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.investmentRepo.Create(r.Context(), inv); err != nil {
		log.Printf("create investment failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create investment")
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "created", Data: toInvestmentDTO(inv)})
}

type updateInvestmentRequest struct {
	Name              *string `json:"name"`
	MonthlyAmount     *string `json:"monthlyAmount"`
	PeriodYears       *int    `json:"periodYears"`
	AnnualRatePercent *string `json:"annualRatePercent"`
	InvestmentDays    *[]int  `json:"investmentDays"`
}

// UpdateInvestment handles PATCH /investments/{id} with partial fields.
func (s *Server) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	var req updateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := s.investmentRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "investment not found")
		return
	}

	if req.Name != nil {
		inv.Name = *req.Name
	}
	if req.MonthlyAmount != nil {
		amount, err := decimal.NewFromString(*req.MonthlyAmount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid monthlyAmount")
			return
		}
		inv.MonthlyAmount = amount
	}
	if req.PeriodYears != nil {
		inv.PeriodYears = *req.PeriodYears
	}
	if req.AnnualRatePercent != nil {
		rate, err := decimal.NewFromString(*req.AnnualRatePercent)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid annualRatePercent")
			return
		}
		inv.AnnualRatePercent = rate
	}
	if req.InvestmentDays != nil {
		inv.InvestmentDays = *req.InvestmentDays
	}

	if err := inv.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	inv.Normalize()

	if err := s.investmentRepo.Update(r.Context(), inv); err != nil {
		log.Printf("update investment failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update investment")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "updated", Data: toInvestmentDTO(inv)})
}

// DeleteInvestment handles DELETE /investments/{id}
func (s *Server) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	if err := s.investmentRepo.Delete(r.Context(), id); err != nil {
		log.Printf("delete investment failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete investment")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "deleted"})
}

// GetProjection handles GET /projection?userId=&years=
func (s *Server) GetProjection(w http.ResponseWriter, r *http.Request) {
	series, years, ok := s.simulateForRequest(w, r)
	if !ok {
		return
	}

	dto := projectionDTO{
		Series:         make([]growthPointDTO, 0, len(series)),
		Milestones:     make([]milestoneDTO, 0, years),
		BreakEvenMonth: projection.BreakEvenMonth(series),
	}
	for _, p := range series {
		dto.Series = append(dto.Series, growthPointDTO{
			Month:      p.Month,
			Principal:  p.Principal.String(),
			TotalAsset: p.TotalAsset.StringFixed(2),
			Profit:     p.Profit.StringFixed(2),
			BreakEven:  p.BreakEven,
		})
	}
	for _, m := range projection.SampleMilestones(series, years) {
		dto.Milestones = append(dto.Milestones, milestoneDTO{
			Year:       m.Year,
			Month:      m.Month,
			Principal:  m.Principal.String(),
			TotalAsset: m.TotalAsset.StringFixed(2),
			Profit:     m.Profit.StringFixed(2),
		})
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "ok", Data: dto})
}

// GetProjectionChart handles GET /projection/chart?userId=&years=
// Responds with a rendered PNG instead of the JSON envelope.
func (s *Server) GetProjectionChart(w http.ResponseWriter, r *http.Request) {
	series, _, ok := s.simulateForRequest(w, r)
	if !ok {
		return
	}
	if len(series) == 0 {
		writeError(w, http.StatusNotFound, "no investments to chart")
		return
	}

	png, err := chartrender.RenderProjectionChart(series)
	if err != nil {
		log.Printf("chart render failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// simulateForRequest parses userId/years, loads the user's investments and
// runs the simulator. Writes the error response itself when ok is false.
func (s *Server) simulateForRequest(w http.ResponseWriter, r *http.Request) ([]domain.GrowthPoint, int, bool) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return nil, 0, false
	}

	years := defaultProjection
	if raw := r.URL.Query().Get("years"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < minProjectionYears || parsed > maxProjectionYears {
			writeError(w, http.StatusBadRequest, "years must be an integer between 1 and 30")
			return nil, 0, false
		}
		years = parsed
	}

	investments, err := s.investmentRepo.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("list investments failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list investments")
		return nil, 0, false
	}

	return projection.Simulate(investments, years), years, true
}

// GetCalendar handles GET /calendar/{year}/{month}?userId=
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	investments, err := s.investmentRepo.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("list investments failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list investments")
		return
	}

	led, err := s.loadLedger(r.Context(), investments)
	if err != nil {
		log.Printf("load completions failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load completions")
		return
	}

	statuses, err := schedule.ClassifyMonth(investments, year, month, led, s.clock.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "ok", Data: statuses})
}

type monthlyRateDTO struct {
	Month     string `json:"month"`
	Rate      int    `json:"rate"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

type statsDTO struct {
	Months      []monthlyRateDTO `json:"months"`
	OverallRate int              `json:"overallRate"`
	Completed   int              `json:"completed"`
	Total       int              `json:"total"`
}

// GetStats handles GET /stats?userId=&months=N and
// GET /stats?userId=&from=YYYY-MM-DD&to=YYYY-MM-DD
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	// Validate the window before touching the store so oversized requests
	// cost nothing
	var from, to time.Time
	months := defaultStatsMonths
	fromRaw, toRaw := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	useRange := fromRaw != "" || toRaw != ""
	if useRange {
		var err error
		from, err = time.Parse(domain.ISODateFormat, fromRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date, want YYYY-MM-DD")
			return
		}
		to, err = time.Parse(domain.ISODateFormat, toRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date, want YYYY-MM-DD")
			return
		}
		if monthSpan(from, to) > maxStatsMonths {
			writeError(w, http.StatusBadRequest, "date range must not exceed 120 months")
			return
		}
	} else if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < minStatsMonths || parsed > maxStatsMonths {
			writeError(w, http.StatusBadRequest, "months must be an integer between 1 and 120")
			return
		}
		months = parsed
	}

	investments, err := s.investmentRepo.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("list investments failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list investments")
		return
	}

	led, err := s.loadLedger(r.Context(), investments)
	if err != nil {
		log.Printf("load completions failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load completions")
		return
	}

	var summary *stats.Summary
	if useRange {
		summary, err = stats.DateRange(investments, led, from, to)
	} else {
		summary, err = stats.TrailingWindow(investments, led, months, s.clock.Now())
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dto := statsDTO{
		Months:      make([]monthlyRateDTO, 0, len(summary.Months)),
		OverallRate: summary.OverallRate,
		Completed:   summary.Completed,
		Total:       summary.Total,
	}
	for _, m := range summary.Months {
		dto.Months = append(dto.Months, monthlyRateDTO{
			Month:     m.MonthLabel,
			Rate:      m.Rate,
			Completed: m.Completed,
			Total:     m.Total,
		})
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "ok", Data: dto})
}

type toggleRequest struct {
	InvestmentID       string `json:"investmentId"`
	Date               string `json:"date"`
	CurrentlyCompleted bool   `json:"currentlyCompleted"`
}

type toggleResponse struct {
	InvestmentID string `json:"investmentId"`
	Date         string `json:"date"`
	Completed    bool   `json:"completed"`
}

// ToggleCompletion handles POST /completions/toggle.
// The client sends its last-known state; the flip is applied optimistically
// and rolled back if the store write fails, in which case the client keeps
// its original state.
func (s *Server) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	invID, err := uuid.Parse(req.InvestmentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}
	if _, err := time.Parse(domain.ISODateFormat, req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	led := ledger.NewLedger(s.clock)
	newState, err := led.ToggleAndPersist(r.Context(), s.completionRepo, invID, req.Date, req.CurrentlyCompleted)
	if err != nil {
		log.Printf("toggle completion failed: %v", err)
		writeError(w, http.StatusBadGateway, "failed to persist completion")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "ok",
		Data:    toggleResponse{InvestmentID: req.InvestmentID, Date: req.Date, Completed: newState},
	})
}

// monthSpan counts the calendar months touched by [from, to].
// A range inside a single month spans 1.
func monthSpan(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
}

// loadLedger seeds a fresh ledger with the persisted completions of every
// listed investment.
func (s *Server) loadLedger(ctx context.Context, investments []*domain.Investment) (*ledger.Ledger, error) {
	led := ledger.NewLedger(s.clock)
	for _, inv := range investments {
		completions, err := s.completionRepo.GetCompletions(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		led.Load(inv.ID, completions)
	}
	return led, nil
}
