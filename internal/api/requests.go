// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/feedrank/internal/validation"
)

// parseFeedRequest reads the feed query parameters. ignoreContractIds may be
// repeated, comma separated, or both.
func parseFeedRequest(q url.Values) (validation.FeedRequest, error) {
	req := validation.FeedRequest{UserID: strings.TrimSpace(q.Get("userId"))}

	var err error
	if req.Limit, err = intParam(q, "limit"); err != nil {
		return req, err
	}
	if req.Offset, err = intParam(q, "offset"); err != nil {
		return req, err
	}

	for _, raw := range q["ignoreContractIds"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.IgnoreContractIDs = append(req.IgnoreContractIDs, id)
			}
		}
	}
	return req, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
