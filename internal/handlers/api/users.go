package api

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"teamup/internal/middleware"
	"teamup/internal/models"
	"teamup/internal/validation"
)

// UserStore is the user persistence used by the admin API.
type UserStore interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserProfile(ctx context.Context, user *models.User) error
	UpdateUserPassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateUserRole(ctx context.Context, id uuid.UUID, role string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserHandler handles user management operations via JSON API. Every
// route is mounted behind RequireAdmin.
type UserHandler struct {
	db UserStore
}

// NewUserHandler creates a new API user handler.
func NewUserHandler(database UserStore) *UserHandler {
	return &UserHandler{db: database}
}

// List returns all users.
func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.db.GetAllUsers(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch users")
	}
	if users == nil {
		users = []models.User{}
	}
	return jsonSuccess(c, users)
}

// Get returns a single user.
func (h *UserHandler) Get(c fiber.Ctx) error {
	userID, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := h.db.GetUserByID(c.Context(), userID)
	if err != nil {
		return failure(c, err, "fetch user")
	}
	return jsonSuccess(c, user)
}

// Create adds a user with a password.
func (h *UserHandler) Create(c fiber.Ctx) error {
	var body models.UserRequest
	if ok, err := decode(c, &body); !ok {
		return err
	}
	if body.Password == "" {
		return jsonError(c, fiber.StatusBadRequest, "password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	user := &models.User{PasswordHash: string(hash), Role: body.Role}
	applyUserRequest(user, &body)

	if err := h.db.CreateUser(c.Context(), user); err != nil {
		return failure(c, err, "create user")
	}

	return jsonStatus(c, fiber.StatusCreated, user)
}

// Update changes a user's profile and, if given, password and role.
func (h *UserHandler) Update(c fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)

	userID, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var body models.UserRequest
	if ok, err := decode(c, &body); !ok {
		return err
	}

	if body.Role != "" && userID == currentUser.ID && body.Role != models.RoleAdmin {
		return jsonError(c, fiber.StatusBadRequest, "cannot change your own role")
	}

	user, err := h.db.GetUserByID(c.Context(), userID)
	if err != nil {
		return failure(c, err, "fetch user")
	}

	applyUserRequest(user, &body)
	if err := h.db.UpdateUserProfile(c.Context(), user); err != nil {
		return failure(c, err, "update user")
	}

	if body.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to hash password")
		}
		if err := h.db.UpdateUserPassword(c.Context(), userID, string(hash)); err != nil {
			return failure(c, err, "update password")
		}
	}

	if body.Role != "" && body.Role != user.Role {
		if err := h.db.UpdateUserRole(c.Context(), userID, body.Role); err != nil {
			return failure(c, err, "update role")
		}
		user.Role = body.Role
	}

	return jsonSuccess(c, user)
}

func applyUserRequest(user *models.User, body *models.UserRequest) {
	user.Email = validation.NormalizeEmail(body.Email)
	user.Name = body.Name
	user.Login = body.Login
	user.City = body.City
	user.Age = body.Age
	user.About = body.About
}

// UpdateRole updates a user's role.
func (h *UserHandler) UpdateRole(c fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)

	userID, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var body models.RoleRequest
	if ok, err := decode(c, &body); !ok {
		return err
	}

	if userID == currentUser.ID && body.Role != models.RoleAdmin {
		return jsonError(c, fiber.StatusBadRequest, "cannot change your own role")
	}

	if err := h.db.UpdateUserRole(c.Context(), userID, body.Role); err != nil {
		return failure(c, err, "update role")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "role updated successfully",
	})
}

// Delete removes a user and their events.
func (h *UserHandler) Delete(c fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)

	userID, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if userID == currentUser.ID {
		return jsonError(c, fiber.StatusBadRequest, "cannot delete your own account")
	}

	if err := h.db.DeleteUser(c.Context(), userID); err != nil {
		return failure(c, err, "delete user")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "user deleted successfully",
	})
}
