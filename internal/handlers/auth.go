package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"teamup/internal/config"
	"teamup/internal/db"
	"teamup/internal/middleware"
	"teamup/internal/models"
	"teamup/internal/validation"
)

// AuthStore is the user persistence needed to sign users in.
type AuthStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpsertUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthHandler handles password registration and login, and the optional
// OIDC flow.
type AuthHandler struct {
	db  AuthStore
	cfg *config.Config
	log *zap.Logger

	// OIDC, nil unless an issuer is configured.
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// NewAuthHandler creates a new auth handler. When OIDC is configured the
// issuer is discovered, which needs network access.
func NewAuthHandler(ctx context.Context, cfg *config.Config, database AuthStore, logger *zap.Logger) (*AuthHandler, error) {
	h := &AuthHandler{db: database, cfg: cfg, log: logger}
	if !cfg.IsOIDCEnabled() {
		return h, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	h.provider = provider
	h.oauth2Config = oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	h.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})
	return h, nil
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c fiber.Ctx) error {
	if user := middleware.CurrentUser(c); user != nil {
		return c.Redirect().To(user.HomePath())
	}
	return c.Render("login", MergeBranding(fiber.Map{}, h.cfg))
}

// Login checks an email and password and starts a session.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	req := models.LoginRequest{
		Email:    validation.NormalizeEmail(c.FormValue("email")),
		Password: c.FormValue("password"),
	}
	if err := validation.Struct(&req); err != nil {
		return h.loginFailed(c, req.Email, err.Error())
	}

	user, err := h.db.GetUserByEmail(c.Context(), req.Email)
	if err != nil && !errors.Is(err, db.ErrUserNotFound) {
		return err
	}
	// OIDC-only accounts have no password hash and cannot log in here.
	if user == nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.log.Info("login failed", zap.String("email", req.Email))
		return h.loginFailed(c, req.Email, "wrong email or password")
	}

	if err := middleware.SignIn(c, user); err != nil {
		return err
	}
	h.log.Info("user logged in", zap.Stringer("user_id", user.ID))
	return redirectAfterLogin(c, user)
}

func (h *AuthHandler) loginFailed(c fiber.Ctx, email, message string) error {
	return c.Status(fiber.StatusUnauthorized).Render("login", MergeBranding(fiber.Map{
		"Error": message,
		"Email": email,
	}, h.cfg))
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c fiber.Ctx) error {
	return c.Render("register", MergeBranding(fiber.Map{}, h.cfg))
}

// Register creates a password account and signs it in.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	req := models.RegisterRequest{
		Email:    validation.NormalizeEmail(c.FormValue("email")),
		Password: c.FormValue("password"),
		Name:     strings.TrimSpace(c.FormValue("name")),
		Login:    strings.TrimSpace(c.FormValue("login")),
		City:     strings.TrimSpace(c.FormValue("city")),
		About:    strings.TrimSpace(c.FormValue("about")),
	}

	age, err := formInt(c, "age")
	if err != nil {
		return h.registerFailed(c, fiber.StatusBadRequest, &req, err.Error())
	}
	req.Age = age

	if err := validation.Struct(&req); err != nil {
		return h.registerFailed(c, fiber.StatusBadRequest, &req, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		Login:        req.Login,
		City:         req.City,
		Age:          req.Age,
		About:        req.About,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := h.db.CreateUser(c.Context(), user); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return h.registerFailed(c, fiber.StatusConflict, &req, "an account with this email already exists")
		}
		return err
	}

	if err := middleware.SignIn(c, user); err != nil {
		return err
	}
	h.log.Info("user registered", zap.Stringer("user_id", user.ID))
	return c.Redirect().To(user.HomePath())
}

func (h *AuthHandler) registerFailed(c fiber.Ctx, status int, req *models.RegisterRequest, message string) error {
	return c.Status(status).Render("register", MergeBranding(fiber.Map{
		"Error": message,
		"Form":  req,
	}, h.cfg))
}

// OIDCLogin initiates the OIDC login flow.
func (h *AuthHandler) OIDCLogin(c fiber.Ctx) error {
	if h.provider == nil {
		return fiber.NewError(fiber.StatusNotFound, "single sign-on is not configured")
	}

	state := generateState()

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set("oauth_state", state)

	url := h.oauth2Config.AuthCodeURL(state)
	return c.Redirect().To(url)
}

// Callback handles the OIDC callback after authentication.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	if h.provider == nil {
		return fiber.NewError(fiber.StatusNotFound, "single sign-on is not configured")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	// Verify state
	savedState, _ := sess.Get("oauth_state").(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete("oauth_state")

	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	claims := make(map[string]any)
	if err := idToken.Claims(&claims); err != nil {
		return err
	}

	// Some providers only put minimal claims in the ID token.
	userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
	if err == nil {
		var userInfoClaims map[string]any
		if err := userInfo.Claims(&userInfoClaims); err == nil {
			for k, v := range userInfoClaims {
				claims[k] = v
			}
		}
	} else {
		h.log.Warn("failed to fetch userinfo", zap.Error(err))
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing subject claim")
	}

	user := &models.User{
		Sub:   sub,
		Email: validation.NormalizeEmail(email),
		Name:  name,
	}
	if err := h.db.UpsertUser(c.Context(), user); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return fiber.NewError(fiber.StatusConflict, "this email is already registered with a password")
		}
		return err
	}

	if err := middleware.SignIn(c, user); err != nil {
		return err
	}
	h.log.Info("user logged in via oidc", zap.Stringer("user_id", user.ID))
	return redirectAfterLogin(c, user)
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	middleware.SignOut(c)
	return c.Redirect().To("/")
}

// redirectAfterLogin sends the user back to the page that asked them to
// log in, or to their role's home page.
func redirectAfterLogin(c fiber.Ctx, user *models.User) error {
	target := user.HomePath()
	if sess := session.FromContext(c); sess != nil {
		if saved, ok := sess.Get(middleware.SessionRedirectKey).(string); ok && strings.HasPrefix(saved, "/") && !strings.HasPrefix(saved, "//") {
			target = saved
		}
		sess.Delete(middleware.SessionRedirectKey)
	}
	return c.Redirect().To(target)
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
