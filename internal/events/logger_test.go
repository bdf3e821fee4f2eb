// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package events

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/feedrank/internal/logging"
)

func TestLoggerAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	adapter := NewLoggerAdapter(logging.NewTestLogger(&buf))

	scoped := adapter.With(watermill.LogFields{"topic": "feed.views.recorded"})
	scoped.Info("published", watermill.LogFields{"uuid": "abc"})
	scoped.Error("publish failed", errors.New("nats down"), nil)

	out := buf.String()
	for _, want := range []string{"published", `"topic":"feed.views.recorded"`, `"uuid":"abc"`, "publish failed", "nats down"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}

	// The parent adapter must not inherit the scoped fields.
	buf.Reset()
	adapter.Info("plain", nil)
	if strings.Contains(buf.String(), "topic") {
		t.Errorf("With() leaked fields into the parent: %s", buf.String())
	}
}
