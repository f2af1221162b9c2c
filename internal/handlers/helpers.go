package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/vkhromov/retail_orders/internal/mykafka"
	"github.com/vkhromov/retail_orders/internal/notify"
)

func CreateCookie(name string, value string, path string, expTime time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	return cookie
}

// GetID extracts the authenticated user id from the access-token cookie.
func GetID(c echo.Context, jwtSecret []byte) (uint, error) {
	cookie, err := c.Cookie("accessToken")
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}
	tokenString := cookie.Value
	if tokenString == "" {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token: "+err.Error())
	}
	if !token.Valid {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	subRaw, ok := claims["sub"].(float64)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid subject claim")
	}

	return uint(subRaw), nil
}

// publishTask hands a notification task to the queue. Publish failures are
// logged, never surfaced to the client.
func publishTask(c echo.Context, p *mykafka.Producer, topic string, task notify.Task) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, fmt.Sprint(task.UserID), task); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
