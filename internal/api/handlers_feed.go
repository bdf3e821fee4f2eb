// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/feedrank/internal/database"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/validation"
)

// Feed handles GET /api/v1/feed.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params, err := parseFeedRequest(r.URL.Query())
	if err != nil {
		rw.ValidationError(err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&params); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	req := models.FeedRequest{
		UserID:            params.UserID,
		Limit:             params.Limit,
		Offset:            params.Offset,
		IgnoreContractIDs: params.IgnoreContractIDs,
	}
	result, err := h.feed.GetFeed(r.Context(), req)
	if err != nil {
		h.storeError(rw, r, err)
		return
	}

	limit, offset := h.feed.Page(req.Limit, req.Offset)
	rw.SuccessWithMeta(http.StatusOK, result, &APIMeta{
		Pagination: &PaginationMeta{Count: len(result.Contracts), Offset: offset, Limit: limit},
	})
}

// Ads handles GET /api/v1/ads: the eligible ads for a user ordered by cost
// per view, before any organic exclusion.
func (h *Handler) Ads(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := validation.AdsRequest{UserID: r.URL.Query().Get("userId")}
	if verr := validation.ValidateStruct(&params); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	ads, err := h.feed.Ads(r.Context(), params.UserID)
	if err != nil {
		h.storeError(rw, r, err)
		return
	}
	rw.Success(ads)
}

// storeError maps a data store failure onto a response. An open breaker is
// reported as 503 so clients back off.
func (h *Handler) storeError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrBreakerOpen):
		logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("Store unavailable")
		rw.ServiceUnavailable("The data store is temporarily unavailable")
	case errors.Is(err, context.Canceled):
		logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("Request canceled")
		rw.Error(499, ErrCodeInternalError, "Request canceled")
	default:
		rw.DatabaseError(err)
	}
}
