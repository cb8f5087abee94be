package server

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/apperr"
)

// statusFor maps a service error to an HTTP status and the message shown
// to the client.
func statusFor(err error) (int, string) {
	var (
		validation *apperr.ValidationError
		conflict   *apperr.ConflictError
		delegate   *apperr.DelegateUnavailableError
		persist    *apperr.PersistenceError
	)
	switch {
	case errors.As(err, &validation):
		return consts.StatusBadRequest, validation.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return consts.StatusNotFound, err.Error()
	case errors.As(err, &conflict):
		return consts.StatusConflict, conflict.Error()
	case errors.As(err, &delegate):
		return consts.StatusInternalServerError, "failed to process"
	case errors.As(err, &persist):
		return consts.StatusInternalServerError, "storage failure"
	default:
		return consts.StatusInternalServerError, consts.StatusMessage(consts.StatusInternalServerError)
	}
}

// respond writes resp as JSON, or the mapped error. Server-side failures
// are logged with the request path.
func respond(ctx context.Context, c *app.RequestContext, resp any, err error) {
	if err == nil {
		c.JSON(consts.StatusOK, resp)
		return
	}
	code, msg := statusFor(err)
	if code >= consts.StatusInternalServerError {
		logx.WithContext(ctx).Errorw("request failed",
			logx.Field("path", string(c.Path())),
			logx.Field("status", code),
			logx.Field("error", err.Error()))
	}
	c.JSON(code, utils.H{"error": msg})
}
