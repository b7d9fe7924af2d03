package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"contactiq/internal/aggregator"
	"contactiq/internal/merge"
	"contactiq/internal/models"
)

// MergePreviewHandler evaluates a speculative merge of two contacts: it
// returns their similarity and the merged record without committing anything.
func MergePreviewHandler(agg *aggregator.Aggregator) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, primary, secondary, ok := bindMergeRequest(c, agg)
		if !ok {
			return nil
		}

		return c.JSON(http.StatusOK, models.MergeResponse{
			Similarity: merge.Similarity(primary, secondary),
			Merged:     merge.Merge(primary, secondary).ToRecord(),
		})
	}
}

// MergeCommitHandler merges two contacts and replaces them with the result.
func MergeCommitHandler(agg *aggregator.Aggregator) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, primary, secondary, ok := bindMergeRequest(c, agg)
		if !ok {
			return nil
		}

		combined := merge.Merge(primary, secondary)
		agg.Remove(req.Primary)
		agg.Remove(req.Secondary)
		agg.Put(combined)

		return c.JSON(http.StatusOK, models.MergeResponse{
			Similarity: merge.Similarity(primary, secondary),
			Merged:     combined.ToRecord(),
		})
	}
}

// bindMergeRequest parses and resolves a merge request. When it returns false
// an error response has already been written.
func bindMergeRequest(c echo.Context, agg *aggregator.Aggregator) (models.MergeRequest, *models.Contact, *models.Contact, bool) {
	var req models.MergeRequest
	if err := c.Bind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return req, nil, nil, false
	}
	req.Primary = strings.ToLower(req.Primary)
	req.Secondary = strings.ToLower(req.Secondary)
	if req.Primary == "" || req.Secondary == "" || req.Primary == req.Secondary {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "primary and secondary must be two distinct emails"})
		return req, nil, nil, false
	}

	primary, ok := agg.Get(req.Primary)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "primary contact not found"})
		return req, nil, nil, false
	}
	secondary, ok := agg.Get(req.Secondary)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "secondary contact not found"})
		return req, nil, nil, false
	}
	return req, primary, secondary, true
}
