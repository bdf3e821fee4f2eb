// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/feedrank/internal/models"
)

// ViewRecorded announces a persisted view.
type ViewRecorded struct {
	EventID    string          `json:"eventId"`
	UserID     string          `json:"userId,omitempty"`
	ContractID string          `json:"contractId"`
	Kind       models.ViewKind `json:"kind"`
	Anonymous  bool            `json:"anonymous"`
	RecordedAt time.Time       `json:"recordedAt"`
}

// NewViewRecorded builds the event for ev with a fresh id.
func NewViewRecorded(ev models.ViewEvent, at time.Time) *ViewRecorded {
	return &ViewRecorded{
		EventID:    uuid.NewString(),
		UserID:     ev.UserID,
		ContractID: ev.ContractID,
		Kind:       ev.Kind,
		Anonymous:  ev.IsAnonymous(),
		RecordedAt: at.UTC(),
	}
}

// Validate checks required fields.
func (e *ViewRecorded) Validate() error {
	if e.EventID == "" {
		return errors.New("event_id is required")
	}
	if e.ContractID == "" {
		return errors.New("contract_id is required")
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("invalid view kind %q", e.Kind)
	}
	if e.RecordedAt.IsZero() {
		return errors.New("recorded_at is required")
	}
	return nil
}

// MarshalEvent validates and encodes the event.
func MarshalEvent(e *ViewRecorded) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// UnmarshalEvent decodes an event payload.
func UnmarshalEvent(data []byte) (*ViewRecorded, error) {
	var e ViewRecorded
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &e, nil
}
