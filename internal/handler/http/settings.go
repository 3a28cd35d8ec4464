package http

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetRules(w http.ResponseWriter, r *http.Request)
	UpdateRules(w http.ResponseWriter, r *http.Request)
	GetOvertime(w http.ResponseWriter, r *http.Request)
	UpdateOvertime(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService timeclock.SettingsService
}

func NewSettingsHandler(settingsService timeclock.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{
		settingsService: settingsService,
	}
}

// GetRules implements SettingsHandler.
func (h *settingsHandlerImpl) GetRules(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetRules(r.Context(), getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateRules implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var req timeclock.UpdateRulesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ActorID = getUserIDFromContext(r)

	result, err := h.settingsService.UpdateRules(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timeclock rules updated", result)
}

// GetOvertime implements SettingsHandler.
func (h *settingsHandlerImpl) GetOvertime(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetOvertime(r.Context(), getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateOvertime implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateOvertime(w http.ResponseWriter, r *http.Request) {
	var req timeclock.UpdateOvertimeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ActorID = getUserIDFromContext(r)

	result, err := h.settingsService.UpdateOvertime(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime thresholds updated", result)
}
