package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/concert-seat-reservation/internal/config"
    "github.com/iliyamo/concert-seat-reservation/internal/middleware"
    "github.com/iliyamo/concert-seat-reservation/internal/model"
    "github.com/iliyamo/concert-seat-reservation/internal/repository"
    "github.com/iliyamo/concert-seat-reservation/internal/utils"
)

// UserFinder looks users up for login.  repository.UserRepo and
// memory.Users both satisfy it.
type UserFinder interface {
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// AuthHandler bundles dependencies for session endpoints.
type AuthHandler struct {
    Cfg   config.Config
    Users UserFinder
}

func NewAuthHandler(cfg config.Config, u UserFinder) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}

type sessionResp struct {
    User   model.User `json:"user"`
    Access tokenPart  `json:"access"`
}

// Login handles POST /api/session: verify credentials and return an
// access token carrying the user's ID and loyalty status.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Status, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    return c.JSON(http.StatusOK, sessionResp{
        User:   u,
        Access: tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Me handles GET /api/session and returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
    id, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    u, err := h.Users.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }
    return c.JSON(http.StatusOK, u)
}
