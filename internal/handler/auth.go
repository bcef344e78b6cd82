package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourist-event-booking/internal/service"
)

// AuthHandler serves signup, signin and the account endpoints.
type AuthHandler struct {
	Auth AuthAPI
}

func NewAuthHandler(a AuthAPI) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=TOURIST BUSINESS"`
}

type signinReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileReq struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Email           *string `json:"email" validate:"omitempty,email"`
	ContactNo       *string `json:"contactNo"`
	ImageURL        *string `json:"imageUrl" validate:"omitempty,url"`
	Password        *string `json:"password"`
	NewPassword     *string `json:"newPassword"`
	CurrentPassword *string `json:"currentPassword"`
}

// Signup: create the user and its role profile.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Auth.Signup(ctx, service.SignupInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: req.Role,
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": true, "message": "Signup successful"})
}

// Signin: verify credentials and return a bearer token.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinReq
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Auth.Signin(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  true,
		"message": "Signin successful",
		"token":   res.Token,
		"role":    res.Role,
		"expiry":  res.Expiry.UTC().Format(time.RFC3339),
	})
}

// UpdateProfile: edit the caller's own profile.  "password" and
// "newPassword" are accepted for the new password.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := caller(c)
	if err != nil {
		return err
	}
	target, err := pathID(c, "userId", "Invalid user ID")
	if err != nil {
		return err
	}
	var req updateProfileReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	newPassword := req.NewPassword
	if newPassword == nil {
		newPassword = req.Password
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.UpdateProfile(ctx, uid, target, service.ProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		ContactNo:       req.ContactNo,
		ImageURL:        req.ImageURL,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     newPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": true, "message": "Profile updated successfully", "user": u})
}

// UserDetails: id, name and email of the caller.
func (h *AuthHandler) UserDetails(c echo.Context) error {
	uid, err := caller(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.UserDetails(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": true, "id": u.ID, "name": u.Name, "email": u.Email})
}

// TouristProfile: public profile of a tourist.
func (h *AuthHandler) TouristProfile(c echo.Context) error {
	id, err := pathID(c, "id", "Invalid tourist ID")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Auth.TouristProfile(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": true, "tourist": p})
}
