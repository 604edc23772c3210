/*
 * Copyright (C) 2026. Gardel <sunxinao@hotmail.com> and contributors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not found", err: NewNotFoundError(MessageSessionNotFound), wantStatus: http.StatusNotFound, wantCode: "NotFoundException"},
		{name: "pointer", err: &AppError{ErrorCode: "X", Status: http.StatusConflict}, wantStatus: http.StatusConflict, wantCode: "X"},
		{name: "wrapped", err: fmt.Errorf("regenerate: %w", NewTooManyRequestsError(MessageTooManyRequests)), wantStatus: http.StatusTooManyRequests, wantCode: "TooManyRequestsException"},
		{name: "clipboard", err: NewClipboardError(errors.New("denied")), wantStatus: http.StatusBadGateway, wantCode: "ClipboardException"},
		{name: "zero status", err: AppError{ErrorCode: "Y"}, wantStatus: http.StatusInternalServerError, wantCode: "Y"},
		{name: "plain error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "InternalServerError"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())
			var body AppError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.ErrorCode)
		})
	}
}

func TestHandleError_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleError(c, AppError{Status: http.StatusNoContent})
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Empty(t, w.Body.String())
}

func TestNewClipboardError_Cause(t *testing.T) {
	err := NewClipboardError(errors.New("NotAllowedError"))
	assert.Equal(t, MessageClipboardFailed, err.Error())
	assert.Equal(t, "NotAllowedError", err.Cause)

	assert.Empty(t, NewClipboardError(nil).Cause)
}
