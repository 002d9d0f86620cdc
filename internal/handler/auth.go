package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/bantus/rental-backend/internal/middleware"
    "github.com/bantus/rental-backend/internal/model"
    "github.com/bantus/rental-backend/internal/service"
)

// AuthHandler serves sign-up, login, token refresh, logout and /me.
type AuthHandler struct {
    Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
    return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type accountReq struct {
    Username string `json:"username" validate:"required,min=3,max=64"`
    Password string `json:"password" validate:"required,min=8,max=128"`
    FullName string `json:"full_name" validate:"required,max=128"`
    Phone    string `json:"phone" validate:"max=32"`
}

func (r accountReq) input() service.AccountInput {
    return service.AccountInput{Username: r.Username, Password: r.Password, FullName: r.FullName, Phone: r.Phone}
}

type loginReq struct {
    Username string `json:"username" validate:"required"`
    Password string `json:"password" validate:"required"`
}

type refreshReq struct {
    RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}

type userPart struct {
    ID       uint64     `json:"id"`
    Username string     `json:"username"`
    Role     model.Role `json:"role"`
}

type authResp struct {
    User    userPart  `json:"user"`
    Access  tokenPart `json:"access"`
    Refresh tokenPart `json:"refresh"`
}

func toAuthResp(p service.TokenPair) authResp {
    return authResp{
        User:    userPart{ID: p.Principal.UserID, Username: p.Username, Role: p.Principal.Role},
        Access:  tokenPart{Token: p.Access, Expires: p.AccessExpires},
        Refresh: tokenPart{Token: p.Refresh, Expires: p.RefreshExpires},
    }
}

// RegisterLandlord handles POST /v1/auth/register/landlord.
func (h *AuthHandler) RegisterLandlord(c echo.Context) error {
    var req accountReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    pair, err := h.Auth.RegisterLandlord(ctx, req.input())
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, toAuthResp(pair))
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    pair, err := h.Auth.Login(ctx, req.Username, req.Password)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, toAuthResp(pair))
}

// Refresh handles POST /v1/auth/refresh and rotates the refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    pair, err := h.Auth.Refresh(ctx, req.RefreshToken)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, toAuthResp(pair))
}

// Logout handles POST /v1/auth/logout.  With a refresh_token only that
// token is revoked; without one every token of the caller is.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req logoutReq
    if ok, err := bind(c, &req); !ok {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Auth.Logout(ctx, middleware.PrincipalFrom(c), req.RefreshToken); err != nil {
        return fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me.
func (h *AuthHandler) Me(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    profile, err := h.Auth.Me(ctx, middleware.PrincipalFrom(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, profile)
}
