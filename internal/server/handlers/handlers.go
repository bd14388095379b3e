package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/i18n"
)

// FlexInt decodes a JSON number or a numeric string, as sent by HTML forms.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", data)
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the decoded value.
func (f FlexInt) Int() int { return int(f) }

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
	case errors.Is(err, models.ErrActiveStopExists),
		errors.Is(err, models.ErrStopNotActive),
		errors.Is(err, models.ErrInvalidStopWindow):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store failure"})
	}
}

// bindJSON decodes the body and answers 400 on malformed input.
func bindJSON(c *gin.Context, logger *zap.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.Debug("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// Locale stores the requested report language (?lang= first, then
// Accept-Language) in the request context.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}
		if lang != "" {
			c.Request = c.Request.WithContext(i18n.WithLocale(c.Request.Context(), lang))
		}
		c.Next()
	}
}

func localizer(c *gin.Context, bundle *i18n.Bundle) *i18n.Localizer {
	return bundle.FromContext(c.Request.Context())
}

func reportRequest(c *gin.Context) models.ReportRequest {
	product := c.Query("productId")
	if product == "" {
		product = c.Query("product")
	}
	return models.ReportRequest{
		Mode:      models.ReportMode(c.Query("mode")),
		Start:     c.Query("start"),
		End:       c.Query("end"),
		Sector:    c.Query("sector"),
		ProductID: product,
	}
}
