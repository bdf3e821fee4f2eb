// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/feedrank/internal/auth"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/supervisor/services"
	"github.com/tomtom215/feedrank/internal/validation"
	"github.com/tomtom215/feedrank/internal/views"
)

// maxViewBodyBytes bounds the POST /api/v1/views body.
const maxViewBodyBytes = 4 << 10

// RecordView handles POST /api/v1/views. The event is queued and the
// response sent before it is written; the write runs on the task runner.
func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var body validation.ViewRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxViewBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		rw.ValidationError("Invalid request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&body); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	ev := models.ViewEvent{
		UserID:     body.UserID,
		ContractID: body.ContractID,
		Kind:       models.ViewKind(body.Kind),
	}
	cont, err := h.views.Record(r.Context(), auth.ActingUserID(r.Context()), ev)
	if err != nil {
		if errors.Is(err, views.ErrUnauthorized) {
			rw.Unauthorized("You can only record views for yourself")
			return
		}
		rw.ValidationError(err.Error(), nil)
		return
	}

	if !h.tasks.Submit(services.Task(cont)) {
		logging.Ctx(r.Context()).Warn().Str("contract_id", ev.ContractID).Msg("Task runner full, draining views on a detached goroutine")
		h.detach(cont)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
