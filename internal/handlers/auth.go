package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/vkhromov/retail_orders/internal/hash"
	"github.com/vkhromov/retail_orders/internal/mykafka"
	"github.com/vkhromov/retail_orders/internal/notify"
	"github.com/vkhromov/retail_orders/internal/repo"
)

type AuthHandler struct {
	Repo      *repo.GormRepo
	Producer  *mykafka.Producer
	Notifier  *notify.Notifier
	JWTSecret []byte
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Company   string `json:"company"`
		Position  string `json:"position"`
		Type      string `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	user, err := h.Repo.CreateUser(c.Request().Context(), repo.CreateUserParams{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Position:  req.Position,
		Type:      req.Type,
	})
	if err != nil {
		if errors.Is(err, repo.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, repo.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishTask(c, h.Producer, notify.TopicUserEvents, notify.Task{
		Type:   notify.TaskNewUserRegistered,
		UserID: user.ID,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) ConfirmAccount(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	user, err := h.Repo.ConfirmEmail(c.Request().Context(), req.Email, req.Token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if errors.Is(err, repo.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	user, err := h.Repo.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "account is not active")
	}

	accessExp := time.Now().Add(24 * time.Hour)
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"type": user.Type,
		"exp":  accessExp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString(h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.SetCookie(CreateCookie("accessToken", accessToken, "/", accessExp))

	return c.JSON(http.StatusOK, map[string]any{"token": accessToken})
}

func (h *AuthHandler) GetDetails(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	user, err := h.Repo.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateDetails(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req struct {
		Email     *string `json:"email"`
		Password  *string `json:"password"`
		Username  *string `json:"username"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Company   *string `json:"company"`
		Position  *string `json:"position"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	updates := map[string]any{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}

	ctx := c.Request().Context()
	user, err := h.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if len(updates) > 0 {
		user, err = h.Repo.UpdateUser(ctx, userID, updates)
		if err != nil {
			if errors.Is(err, repo.ErrValidation) {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if req.Password != nil {
		if err := h.Repo.SetUserPassword(ctx, userID, *req.Password); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, user)
}

// PasswordReset creates (or reuses) a confirmation token and mails it
// inline with the request. A transport failure surfaces to the caller.
func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	ctx := c.Request().Context()
	user, err := h.Repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := h.Repo.GetOrCreateConfirmToken(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.Notifier.PasswordResetTokenCreated(ctx, user, token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

func (h *AuthHandler) PasswordResetConfirm(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	ctx := c.Request().Context()
	user, err := h.Repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "wrong email or token")
	}

	token, err := h.Repo.FindTokenByKey(ctx, req.Token)
	if err != nil || token.UserID != user.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "wrong email or token")
	}

	if err := h.Repo.SetUserPassword(ctx, user.ID, req.Password); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}
