// Reviewdeck - Amazon Movie Review Analytics
// Copyright 2026 Reviewdeck contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reviewdeck/reviewdeck

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/reviewdeck/reviewdeck/internal/models"
)

// TopProductsRequest carries the validated query parameters of the
// product ranking endpoint. The max tag is adjusted at parse time from
// the configured cap.
type TopProductsRequest struct {
	Limit int `validate:"min=1"`
}

// parseTopProductsRequest extracts and validates the limit parameter.
// A missing limit falls back to defaultLimit; a malformed or
// out-of-range one yields a *models.APIError ready to send.
func parseTopProductsRequest(r *http.Request, defaultLimit, maxLimit int) (TopProductsRequest, *models.APIError) {
	req := TopProductsRequest{Limit: defaultLimit}

	raw := r.URL.Query().Get("limit")
	if raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, &models.APIError{
				Code:    ErrCodeBadRequest,
				Message: "limit must be an integer",
			}
		}
		req.Limit = limit
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		return req, apiErr
	}

	// The cap is configuration-driven, so it cannot live in the struct tag.
	if req.Limit > maxLimit {
		return req, &models.APIError{
			Code:    ErrCodeValidationError,
			Message: fmt.Sprintf("Limit must be at most %d", maxLimit),
			Details: map[string]interface{}{
				"field": "Limit",
				"tag":   "max",
				"value": req.Limit,
			},
		}
	}

	return req, nil
}
