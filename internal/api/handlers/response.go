package handlers

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"menu-planner/internal/pkg/common"
)

// RespondError 將錯誤轉成 ErrorResponse；非預期錯誤只在 debug 模式回傳細節
func RespondError(c *gin.Context, err error) {
	ce := common.AsCustomError(err)

	fields := []zap.Field{
		zap.String("code", ce.Code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
		zap.Error(err),
	}
	if ce.Status >= 500 {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求被拒絕", fields...)
	}

	resp := common.ErrorResponse{Code: ce.Code, Message: ce.Message}
	if gin.IsDebugging() && ce.Err == nil && ce != err {
		resp.Details = err.Error()
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, resp)
}

// BadRequest 回傳 400 與說明
func BadRequest(c *gin.Context, message string) {
	RespondError(c, common.NewValidationError(message))
}
