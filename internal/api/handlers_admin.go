// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/feedrank/internal/interest"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/validation"
)

// RebuildResponse is the body of a profile rebuild.
type RebuildResponse struct {
	UserID  string           `json:"userId"`
	Profile interest.Profile `json:"profile"`
}

// RebuildInterests handles POST /api/v1/admin/interests/{userID}/rebuild.
func (h *Handler) RebuildInterests(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" || len(userID) > 128 {
		rw.ValidationError("userID must be between 1 and 128 characters", nil)
		return
	}

	profile, err := h.profiles.Rebuild(r.Context(), userID)
	if err != nil {
		h.storeError(rw, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", userID).Int("topics", len(profile)).Msg("Interest profile rebuilt on request")
	rw.Success(RebuildResponse{UserID: userID, Profile: profile})
}

// ViewCounter handles GET /api/v1/admin/views/counters/{contractID}?userId=.
// Without userId it reads the shared anonymous row.
func (h *Handler) ViewCounter(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := validation.ViewCounterRequest{
		ContractID: strings.TrimSpace(chi.URLParam(r, "contractID")),
		UserID:     r.URL.Query().Get("userId"),
	}
	if verr := validation.ValidateStruct(&params); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	vc, err := h.counters.ViewCounter(r.Context(), params.UserID, params.ContractID)
	if err != nil {
		h.storeError(rw, r, err)
		return
	}
	if vc == nil {
		rw.NotFound("No views recorded for this contract and user")
		return
	}
	rw.Success(vc)
}

// ViewQueueStats handles GET /api/v1/admin/views/queue.
func (h *Handler) ViewQueueStats(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.views.Stats())
}

// Performance handles GET /api/v1/admin/performance.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.perfMon.Stats())
}
