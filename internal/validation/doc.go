// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process wide. Errors name fields by
// their json or query tag so that messages match what the client sent:
//
//	req := validation.ViewRequest{ContractID: "c1", Kind: "banner"}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // apiErr.Message == "kind must be one of: card, promoted, page"
//	}
//
// The custom "viewkind" tag accepts card, promoted and page.
package validation
