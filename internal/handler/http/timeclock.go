package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type TimeclockHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Edit(w http.ResponseWriter, r *http.Request)
	BulkApprove(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetMyEntries(w http.ResponseWriter, r *http.Request)
	GetTeamSummary(w http.ResponseWriter, r *http.Request)
	ListPayPeriods(w http.ResponseWriter, r *http.Request)
}

type timeclockHandlerImpl struct {
	timeclockService timeclock.TimeclockService
}

func NewTimeclockHandler(timeclockService timeclock.TimeclockService) TimeclockHandler {
	return &timeclockHandlerImpl{
		timeclockService: timeclockService,
	}
}

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// getIntQueryParam returns ok=false when the parameter is present but not an integer
func getIntQueryParam(r *http.Request, key string, defaultVal int) (int, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal, true
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return intVal, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Warn("Failed to decode request body", "error", err, "path", r.URL.Path)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// ClockIn implements TimeclockHandler.
func (h *timeclockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	req := timeclock.ClockInRequest{ActorID: getUserIDFromContext(r)}

	result, err := h.timeclockService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements TimeclockHandler.
func (h *timeclockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	req := timeclock.ClockOutRequest{
		EntryID: chi.URLParam(r, "id"),
		ActorID: getUserIDFromContext(r),
	}

	result, err := h.timeclockService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// Submit implements TimeclockHandler.
func (h *timeclockHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	req := timeclock.SubmitEntryRequest{
		EntryID: chi.URLParam(r, "id"),
		ActorID: getUserIDFromContext(r),
	}

	result, err := h.timeclockService.SubmitEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Entry submitted", result)
}

// Decide implements TimeclockHandler.
func (h *timeclockHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req timeclock.DecideEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EntryID = chi.URLParam(r, "id")
	req.ActorID = getUserIDFromContext(r)

	result, err := h.timeclockService.DecideEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Entry approved"
	if req.Decision == timeclock.DecisionReject {
		message = "Entry rejected"
	}
	response.SuccessWithMessage(w, message, result)
}

// Edit implements TimeclockHandler.
func (h *timeclockHandlerImpl) Edit(w http.ResponseWriter, r *http.Request) {
	var req timeclock.EditEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EntryID = chi.URLParam(r, "id")
	req.ActorID = getUserIDFromContext(r)

	result, err := h.timeclockService.EditEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Entry updated", result)
}

// BulkApprove implements TimeclockHandler.
func (h *timeclockHandlerImpl) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var req timeclock.BulkApproveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ActorID = getUserIDFromContext(r)

	result, err := h.timeclockService.BulkApprove(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements TimeclockHandler.
func (h *timeclockHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	req := timeclock.GetEntryRequest{
		EntryID: chi.URLParam(r, "id"),
		ActorID: getUserIDFromContext(r),
	}

	result, err := h.timeclockService.GetEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyEntries implements TimeclockHandler.
func (h *timeclockHandlerImpl) GetMyEntries(w http.ResponseWriter, r *http.Request) {
	period, ok := getIntQueryParam(r, "period", 0)
	if !ok {
		response.BadRequest(w, "period must be an integer", nil)
		return
	}

	req := timeclock.MyEntriesRequest{
		ActorID:     getUserIDFromContext(r),
		PeriodIndex: period,
	}

	result, err := h.timeclockService.GetMyEntries(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTeamSummary implements TimeclockHandler.
func (h *timeclockHandlerImpl) GetTeamSummary(w http.ResponseWriter, r *http.Request) {
	period, ok := getIntQueryParam(r, "period", 0)
	if !ok {
		response.BadRequest(w, "period must be an integer", nil)
		return
	}

	req := timeclock.TeamSummaryRequest{
		ActorID:     getUserIDFromContext(r),
		PeriodIndex: period,
	}
	if departmentID := r.URL.Query().Get("department_id"); departmentID != "" {
		req.DepartmentID = &departmentID
	}

	result, err := h.timeclockService.GetTeamSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPayPeriods implements TimeclockHandler.
func (h *timeclockHandlerImpl) ListPayPeriods(w http.ResponseWriter, r *http.Request) {
	count, ok := getIntQueryParam(r, "count", 0)
	if !ok {
		response.BadRequest(w, "count must be an integer", nil)
		return
	}

	result, err := h.timeclockService.ListPayPeriods(r.Context(), count)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}
