package apierr

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) ErrorResponse {
	var e ErrorResponse
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func FromErr(err error) ErrorResponse {
	var api *APIError
	if errors.As(err, &api) {
		return Body(api.Code, api.Message)
	}
	// 想定外のエラーは中身を返さない
	return Body(CodeInternal, "internal server error")
}

// Respond はエラーをステータスとボディに変換して書き込む。500系はログに残す
func Respond(c *gin.Context, log *zap.Logger, err error) {
	status := ToHTTPStatus(err)
	if status >= 500 && log != nil {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, FromErr(err))
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(400, Body(CodeInvalidArgument, msg))
}
