package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendtable/internal/errors"
	"spendtable/internal/validator"
)

// dateRange is the from/to pair accepted by list and overview endpoints.
// From is inclusive. Until is exclusive: a plain date in to covers that whole
// day, an RFC3339 timestamp is included itself.
type dateRange struct {
	From  *time.Time
	To    *time.Time
	Until *time.Time
}

func parseDateRange(c *gin.Context) (dateRange, error) {
	var r dateRange
	if raw := c.Query("from"); raw != "" {
		from, err := validator.ParseDate(raw)
		if err != nil {
			return r, apperrors.WithMessage(apperrors.ErrInvalidInput, "from: "+err.Error())
		}
		r.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := validator.ParseDate(raw)
		if err != nil {
			return r, apperrors.WithMessage(apperrors.ErrInvalidInput, "to: "+err.Error())
		}
		until := to.Add(time.Nanosecond)
		if validator.IsDateOnly(raw) {
			until = to.AddDate(0, 0, 1)
		}
		r.To, r.Until = &to, &until
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return r, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must not be after to")
	}
	return r, nil
}

// parseFlag reads boolean query flags as written by overview links ("True")
// as well as the usual "true" and "1".
func parseFlag(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+key)
	}
	return v, nil
}

// parseMonths reads the months query parameter, falling back to def.
func parseMonths(c *gin.Context, def int) (int, error) {
	raw := c.Query("months")
	if raw == "" {
		return def, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil || months < 1 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be a positive integer")
	}
	return months, nil
}
