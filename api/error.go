// MIT License
//
// Copyright (c) 2023 Lack
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package api

import (
	"fmt"
	"net/http"

	json "github.com/json-iterator/go"
)

type StatusCode int32

func (c StatusCode) String() string {
	return http.StatusText(int(c))
}

const (
	StatusBadRequest            StatusCode = 400
	StatusNotFound              StatusCode = 404
	StatusMethodNotAllowed      StatusCode = 405
	StatusRequestEntityTooLarge StatusCode = 413
	StatusUnsupportedMediaType  StatusCode = 415
	StatusUnprocessableEntity   StatusCode = 422
	StatusInternalServerError   StatusCode = 500
)

// Error is the body of every failed API call.
type Error struct {
	Code   int32  `json:"code"`
	Status string `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// New generates a custom error.
func New(detail string, code StatusCode) *Error {
	e := &Error{
		Code:   int32(code),
		Detail: detail,
		Status: code.String(),
	}
	return e
}

// HTTPStatus is the response status for the error. Codes outside the HTTP
// range map to 500.
func (e Error) HTTPStatus() int {
	if e.Code < 400 || e.Code > 599 {
		return http.StatusInternalServerError
	}
	return int(e.Code)
}

func (e Error) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Parse tries to parse a JSON string into an error. If that
// fails, it will set the given string as the error detail.
func Parse(err string) *Error {
	e := new(Error)
	errr := json.Unmarshal([]byte(err), e)
	if errr != nil {
		e.Detail = err
	}
	return e
}

// BadRequest generates a 400 error.
func BadRequest(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), StatusBadRequest)
}

// NotFound generates a 404 error.
func NotFound(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), StatusNotFound)
}

// MethodNotAllowed generates a 405 error.
func MethodNotAllowed(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), StatusMethodNotAllowed)
}

// RequestEntityTooLarge generates a 413 error.
func RequestEntityTooLarge(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), StatusRequestEntityTooLarge)
}

// UnsupportedMediaType generates a 415 error.
func UnsupportedMediaType(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), StatusUnsupportedMediaType)
}

// UnprocessableEntity generates a 422 error.
func UnprocessableEntity(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), StatusUnprocessableEntity)
}

// InternalServerError generates a 500 error.
func InternalServerError(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), StatusInternalServerError)
}
