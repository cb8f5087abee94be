package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey    = "userId"
	userIDHeader = "X-User-Id"
)

// SignToken issues an HS256 token whose subject is userID.
func SignToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret, tok string) (string, error) {
	var claims jwt.RegisteredClaims
	t, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// requireToken rejects requests without a valid bearer token and stores
// the token subject as the caller's user id.
func requireToken(secret string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		h := string(c.GetHeader("Authorization"))
		tok, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": "missing bearer token"})
			return
		}
		sub, err := parseToken(secret, strings.TrimSpace(tok))
		if err != nil {
			c.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": fmt.Sprintf("invalid token: %v", err)})
			return
		}
		c.Set(userIDKey, sub)
		c.Next(ctx)
	}
}

// callerID resolves the acting user: the token subject, then the
// X-User-Id header, then the id sent in the body.
func callerID(c *app.RequestContext, fromBody string) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	if h := strings.TrimSpace(string(c.GetHeader(userIDHeader))); h != "" {
		return h
	}
	if q := strings.TrimSpace(c.Query("userId")); q != "" {
		return q
	}
	return strings.TrimSpace(fromBody)
}
