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
	"errors"
	"github.com/gin-gonic/gin"
	"net/http"
)

var MessageSessionNotFound = "No such code session."
var MessageTooManyRequests = "Too many regenerate requests."
var MessageClipboardFailed = "Failed to copy code."

type AppError struct {
	ErrorCode    string `json:"error"`
	ErrorMessage string `json:"errorMessage"`
	Cause        string `json:"cause,omitempty"`
	Status       int    `json:"-"`
}

func (e AppError) Error() string {
	return e.ErrorMessage
}

func NewIllegalArgumentError(msg string) (err AppError) {
	err.ErrorCode = "IllegalArgumentException"
	err.Status = http.StatusBadRequest
	err.ErrorMessage = msg
	return err
}

func NewNotFoundError(msg string) (err AppError) {
	err.ErrorCode = "NotFoundException"
	err.Status = http.StatusNotFound
	err.ErrorMessage = msg
	return err
}

func NewTooManyRequestsError(msg string) (err AppError) {
	err.ErrorCode = "TooManyRequestsException"
	err.Status = http.StatusTooManyRequests
	err.ErrorMessage = msg
	return err
}

// NewClipboardError reports a failed clipboard write; cause carries the
// collaborator's own message.
func NewClipboardError(cause error) (err AppError) {
	err.ErrorCode = "ClipboardException"
	err.Status = http.StatusBadGateway
	err.ErrorMessage = MessageClipboardFailed
	if cause != nil {
		err.Cause = cause.Error()
	}
	return err
}

func HandleError(c *gin.Context, err error) {
	var appErr AppError
	var appErrPtr *AppError
	switch {
	case errors.As(err, &appErr):
	case errors.As(err, &appErrPtr) && appErrPtr != nil:
		appErr = *appErrPtr
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, AppError{
			ErrorCode:    "InternalServerError",
			ErrorMessage: err.Error(),
		})
		return
	}
	if appErr.Status == 0 {
		appErr.Status = http.StatusInternalServerError
	}
	if appErr.Status == http.StatusNoContent {
		c.Status(appErr.Status)
	} else {
		c.AbortWithStatusJSON(appErr.Status, appErr)
	}
}
