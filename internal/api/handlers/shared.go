package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T, rejecting unknown fields and trailing data.
func parseJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return req, errors.New("invalid request body: unexpected data after JSON object")
	}
	return req, nil
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, apperrors.ErrInvalidTradeType),
		errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrInvalidPrice),
		errors.Is(err, apperrors.ErrNegativeAmount),
		errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrInvalidSymbol),
		errors.Is(err, apperrors.ErrMissingRequiredField):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrHoldingNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientHoldings),
		errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrPriceUnavailable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondServiceError writes the error body for err. Client errors use err itself as the
// message; server errors use the given fallback and are logged with the request logger.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)

	var vErr *validation.Error
	if errors.As(err, &vErr) {
		response.RespondError(w, status, "validation failed", vErr.Fields)
		return
	}

	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(fallback)
		response.RespondError(w, status, fallback, err.Error())
		return
	}
	response.RespondError(w, status, rootMessage(err), err.Error())
}

// rootMessage returns the message of the innermost wrapped error.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
