package devserver

import (
	"fmt"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/mediride/transit-client/internal/core/domain"
)

type registerRequest struct {
	Name     string              `json:"name" validate:"required"`
	Email    string              `json:"email" validate:"required,email"`
	Password string              `json:"password" validate:"required,min=6"`
	Role     domain.Role         `json:"role" validate:"required"`
	Phone    string              `json:"phone"`
	Medical  *domain.MedicalInfo `json:"medical"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse is the wrapped envelope login and register use.
type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !req.Role.SelfRegisterable() {
		return domain.ErrRoleNotPermitted
	}

	user, err := s.store.createUser(domain.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Medical:  req.Medical,
	})
	if err != nil {
		return err
	}

	token, err := issueToken(user, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := s.store.authenticate(req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := issueToken(user, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) logout(c echo.Context) error {
	// Tokens are stateless here; logout succeeds once the caller proved it
	// held a valid one.
	return c.NoContent(http.StatusNoContent)
}

// me returns the bare user, NOT wrapped — matching the real backend's
// inconsistency.
func (s *Server) me(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	user, err := s.store.getUser(userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) updateUser(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	targetID := c.Param("id")
	if targetID != userID && role != string(domain.RoleAdmin) {
		return domain.ErrForbidden
	}

	var update domain.User
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := s.store.updateUser(targetID, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]*domain.User{"user": user})
}

func (s *Server) uploadAvatar(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	targetID := c.Param("id")
	if targetID != userID {
		return domain.ErrForbidden
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is required")
	}

	// The dev server does not keep bytes; it just records a plausible URL.
	user, err := s.store.updateUser(targetID, domain.User{
		AvatarURL: fmt.Sprintf("/static/avatars/%s/%s", targetID, path.Base(file.Filename)),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]*domain.User{"user": user})
}

func (s *Server) requestRide(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)

	var req domain.RideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Pickup.Address == "" || req.Dropoff.Address == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pickup and dropoff are required")
	}

	ride := s.store.createRide(userID, req)
	return c.JSON(http.StatusCreated, map[string]*domain.Ride{"ride": ride})
}

func (s *Server) listRides(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)

	rides := s.store.listRides(userID, domain.Role(role))
	return c.JSON(http.StatusOK, map[string][]domain.Ride{"rides": rides})
}

func (s *Server) getRide(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)

	ride, err := s.store.getRide(c.Param("id"))
	if err != nil {
		return err
	}
	if role != string(domain.RoleAdmin) && ride.UserID != userID && ride.RiderID != userID {
		return domain.ErrForbidden
	}
	return c.JSON(http.StatusOK, map[string]*domain.Ride{"ride": ride})
}

func (s *Server) cancelRide(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)

	ride, err := s.store.cancelRide(c.Param("id"), userID, domain.Role(role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]*domain.Ride{"ride": ride})
}

func (s *Server) listHistory(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	entries := s.store.listHistory(userID)
	return c.JSON(http.StatusOK, map[string][]domain.HistoryEntry{"history": entries})
}
