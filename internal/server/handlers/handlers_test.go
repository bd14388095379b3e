package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFlexInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: `12`, want: 12},
		{in: `"12"`, want: 12},
		{in: `" 7 "`, want: 7},
		{in: `""`, want: 0},
		{in: `null`, want: 0},
		{in: `"-3"`, want: -3},
		{in: `"12kg"`, wantErr: true},
		{in: `1.5`, wantErr: true},
		{in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			var got struct {
				N FlexInt `json:"n"`
			}
			err := json.Unmarshal([]byte(`{"n":`+tt.in+`}`), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.N.Int())
		})
	}
}

func TestRespondError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "validation", err: &models.ValidationError{Field: "quantity", Reason: "quantity must be a positive integer"}, wantStatus: http.StatusBadRequest, wantBody: `{"error":"quantity must be a positive integer","field":"quantity"}`},
		{name: "active stop", err: models.ErrActiveStopExists, wantStatus: http.StatusConflict, wantBody: `{"error":"active stop already exists for this sector"}`},
		{name: "already ended", err: fmt.Errorf("end: %w", models.ErrStopNotActive), wantStatus: http.StatusConflict},
		{name: "clock went back", err: models.ErrInvalidStopWindow, wantStatus: http.StatusConflict},
		{name: "not found", err: models.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "export disabled", err: models.ErrExportDisabled, wantStatus: http.StatusServiceUnavailable},
		{name: "store failure", err: errors.New("connection reset by peer"), wantStatus: http.StatusInternalServerError, wantBody: `{"error":"store failure"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
