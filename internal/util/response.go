package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the "data" payload of a successful reply.
type Response map[string]interface{}

// Business error codes, carried next to the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// Success writes {"code":0,"data":...} with 200.
func Success(c *gin.Context, data Response) {
	SuccessStatus(c, http.StatusOK, data)
}

// SuccessStatus is Success with an explicit status, e.g. 201 on create.
func SuccessStatus(c *gin.Context, httpStatus int, data Response) {
	c.JSON(httpStatus, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes {"code":N,"message":"..."}.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}
