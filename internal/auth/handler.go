package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/veribill/veribill/internal/identity"
)

var validate = validator.New()

// Handler exposes signup and login endpoints.
type Handler struct {
	ids    *identity.Service
	tokens *Service
	logger *slog.Logger
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(ids *identity.Service, tokens *Service, logger *slog.Logger) *Handler {
	return &Handler{ids: ids, tokens: tokens, logger: logger}
}

type signupRequest struct {
	FullName string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
}

type signupResponse struct {
	Message string     `json:"message"`
	User    signupUser `json:"user"`
}

type signupUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Signup creates a user account. Only the id and email are echoed back; the
// password hash never leaves the service.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.ids.Register(c.UserContext(), identity.Signup{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		h.logger.Error("signup failed", "email", req.Email, "error", err)
		return fiber.NewError(http.StatusInternalServerError, "Signup failed")
	}

	return c.Status(http.StatusOK).JSON(signupResponse{
		Message: "User created",
		User:    signupUser{ID: user.ID, Email: user.Email},
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login authenticates by email and password and returns a signed bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.ids.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotFound):
			return fiber.NewError(http.StatusBadRequest, "User not found")
		case errors.Is(err, identity.ErrInvalidCredentials):
			return fiber.NewError(http.StatusUnauthorized, "Invalid password")
		default:
			h.logger.Error("login failed", "email", req.Email, "error", err)
			return fiber.NewError(http.StatusInternalServerError, "Login failed")
		}
	}

	token, _, err := h.tokens.IssueToken(user)
	if err != nil {
		h.logger.Error("token issuance failed", "user_id", user.ID, "error", err)
		return fiber.NewError(http.StatusInternalServerError, "Login failed")
	}

	return c.Status(http.StatusOK).JSON(loginResponse{Message: "Login successful", Token: token})
}
