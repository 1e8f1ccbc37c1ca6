// Package response defines the uniform JSON envelope returned by every
// handler: {code, message, data}. The HTTP status carries the outcome
// class; the code field carries the specific business outcome.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess     = 0
	CodeParamError  = 400
	CodeNotFound    = 404
	CodeServerError = 500
)

// Business error codes.
const (
	CodeClientNotFound    = 1001
	CodeAccountNotFound   = 1002
	CodeDuplicateClient   = 1003
	CodeDuplicateAccount  = 1004
	CodeSameAccount       = 1005
	CodeInsufficientFunds = 1006
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created is Success with a 201 status, used by the create endpoints.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeParamError, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

func BusinessError(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, CodeServerError, message)
}
