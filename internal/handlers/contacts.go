package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"contactiq/internal/aggregator"
	"contactiq/internal/models"
	"contactiq/internal/scoring"
)

// ListContactsHandler returns every aggregated contact in record form.
func ListContactsHandler(agg *aggregator.Aggregator) echo.HandlerFunc {
	return func(c echo.Context) error {
		contacts := agg.Contacts()
		records := make([]map[string]interface{}, 0, len(contacts))
		for _, contact := range contacts {
			records = append(records, contact.ToRecord())
		}
		return c.JSON(http.StatusOK, records)
	}
}

// GetContactHandler returns one contact by email key.
func GetContactHandler(agg *aggregator.Aggregator) echo.HandlerFunc {
	return func(c echo.Context) error {
		email := strings.ToLower(c.Param("email"))
		contact, ok := agg.Get(email)
		if !ok {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "contact not found"})
		}
		return c.JSON(http.StatusOK, contact)
	}
}

// ScoreContactHandler computes and returns the contact score. The optional
// "account" query parameter scopes the score to one source account.
func ScoreContactHandler(agg *aggregator.Aggregator) echo.HandlerFunc {
	return func(c echo.Context) error {
		email := strings.ToLower(c.Param("email"))
		contact, ok := agg.Get(email)
		if !ok {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "contact not found"})
		}
		score := scoring.Score(contact, c.QueryParam("account"))
		return c.JSON(http.StatusOK, score)
	}
}

// IngestHandler accepts a batch of raw records from one source account.
func IngestHandler(agg *aggregator.Aggregator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.IngestRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		}
		if req.AccountID == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "account_id is required"})
		}

		accepted, rejected := agg.IngestBatch(req.Records, req.AccountID)
		return c.JSON(http.StatusOK, models.IngestResponse{
			Accepted: accepted,
			Rejected: rejected,
			Contacts: agg.Len(),
		})
	}
}
