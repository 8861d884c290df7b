package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func MapDBError(err error) (int, ErrorResponse) {
	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, ErrorResponse{Error: "resource not found"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out"}
	}
	if errors.Is(err, context.Canceled) {
		return 499, ErrorResponse{Error: "request canceled"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return http.StatusConflict, ErrorResponse{
				Error:   "resource already exists",
				Details: pgErr.Detail,
			}
		case "23503": // foreign_key_violation
			return http.StatusBadRequest, ErrorResponse{
				Error:   "referenced resource does not exist",
				Details: pgErr.Detail,
			}
		case "23514": // check_violation
			return http.StatusBadRequest, ErrorResponse{
				Error:   "constraint violation",
				Details: pgErr.Detail,
			}
		case "23P01": // exclusion_violation
			return http.StatusConflict, ErrorResponse{
				Error:   "overlapping resource",
				Details: pgErr.Detail,
			}
		case "22003": // numeric_value_out_of_range
			return http.StatusBadRequest, ErrorResponse{
				Error:   "amount out of range",
				Details: pgErr.Message,
			}
		case "22P02": // invalid_text_representation
			return http.StatusBadRequest, ErrorResponse{
				Error:   "invalid value",
				Details: pgErr.Message,
			}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			if c.Writer.Written() {
				return
			}
			err := c.Errors.Last().Err
			status, resp := MapDBError(err)
			if status == http.StatusInternalServerError {
				zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("unhandled error")
			}
			c.JSON(status, resp)
		}
	}
}
