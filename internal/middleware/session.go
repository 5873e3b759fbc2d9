package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const sessionCookieName = "cart_session"

// ブラウザごとに安定した匿名セッションIDを配る。
// 未ログインのカートはこのIDで持ち主を決める。
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sessionID string

			cookie, err := c.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			} else {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     sessionCookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(30 * 24 * time.Hour),
				})
			}

			req := c.Request()
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), ctxKeySessionID, sessionID)))

			return next(c)
		}
	}
}

// usecase.AuthContext の実装。ミドルウェアが詰めた値を読むだけ。
type ContextAuth struct{}

func (ContextAuth) CurrentUserID(ctx context.Context) (int64, bool) {
	v := ctx.Value(ctxKeyUserID)
	if v == nil {
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// usecase.SessionContext の実装。
type ContextSession struct{}

func (ContextSession) SessionID(ctx context.Context) (string, bool) {
	v := ctx.Value(ctxKeySessionID)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
