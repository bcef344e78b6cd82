package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/tourist-event-booking/internal/apperr"
	"github.com/iliyamo/tourist-event-booking/internal/model"
	"github.com/iliyamo/tourist-event-booking/internal/notify"
	"github.com/iliyamo/tourist-event-booking/internal/repository"
	"github.com/iliyamo/tourist-event-booking/internal/utils"
)

// Messages shared with tests.
const (
	MsgEmailExists        = "Email already exists"
	MsgInvalidCredentials = "Invalid email or password"
	MsgWrongPassword      = "Current password is incorrect"
	MsgTouristNotFound    = "Tourist not found"
)

// AuthService covers signup, signin and profile maintenance.
type AuthService struct {
	Users      UserStore
	Notifier   Notifier
	JWTSecret  string
	TokenTTL   int // minutes
	BcryptCost int
}

func NewAuthService(users UserStore, n Notifier, secret string, ttlMin, cost int) *AuthService {
	if n == nil {
		n = nopNotifier{}
	}
	return &AuthService{Users: users, Notifier: n, JWTSecret: secret, TokenTTL: ttlMin, BcryptCost: cost}
}

// SignupInput is a request already validated for shape.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// SigninResult is what a successful signin hands back to the client.
type SigninResult struct {
	Token  string
	Role   string
	Expiry time.Time
}

// ProfileInput carries optional profile edits.  NewPassword requires
// CurrentPassword.
type ProfileInput struct {
	Name            *string
	Email           *string
	ContactNo       *string
	ImageURL        *string
	CurrentPassword *string
	NewPassword     *string
}

func emailExists() error {
	return apperr.Conflict(MsgEmailExists).WithStatus(http.StatusBadRequest)
}

// Signup creates the user and its role profile, then sends a welcome email.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (uint64, error) {
	email := repository.NormalizeEmail(in.Email)
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role != model.RoleTourist && role != model.RoleBusiness {
		return 0, apperr.Validation("Role must be TOURIST or BUSINESS")
	}

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return 0, emailExists()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, internal(err)
	}

	hash, err := utils.HashNewPassword(in.Password, s.BcryptCost)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooShort) {
			return 0, apperr.Validation(err.Error())
		}
		return 0, internal(err)
	}
	id, err := s.Users.CreateWithProfile(ctx, in.Name, email, hash, role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return 0, emailExists()
		}
		return 0, internal(err)
	}

	s.Notifier.Dispatch(notify.Welcome(email, strings.TrimSpace(in.Name)))
	return id, nil
}

// Signin verifies credentials and issues an access token.  Unknown email
// and wrong password produce the same error.
func (s *AuthService) Signin(ctx context.Context, email, password string) (SigninResult, error) {
	invalid := apperr.Authentication(MsgInvalidCredentials).WithStatus(http.StatusBadRequest)

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SigninResult{}, invalid
		}
		return SigninResult{}, internal(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return SigninResult{}, invalid
	}

	tok, err := utils.NewAccessToken(s.JWTSecret, u.ID, u.Name, u.Role, s.TokenTTL)
	if err != nil {
		return SigninResult{}, internal(err)
	}
	return SigninResult{Token: tok.Token, Role: u.Role, Expiry: tok.Exp}, nil
}

// UpdateProfile applies in to the caller's own account and returns the
// refreshed user.
func (s *AuthService) UpdateProfile(ctx context.Context, callerID, userID uint64, in ProfileInput) (model.User, error) {
	if callerID != userID {
		return model.User{}, apperr.Authorization("You can only update your own profile")
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, apperr.NotFound("User not found")
		}
		return model.User{}, internal(err)
	}

	upd := model.ProfileUpdate{Name: trimmed(in.Name), ContactNo: in.ContactNo, ImageURL: in.ImageURL}
	if in.Email != nil {
		email := repository.NormalizeEmail(*in.Email)
		if email != u.Email {
			taken, err := s.Users.EmailTakenByOther(ctx, email, userID)
			if err != nil {
				return model.User{}, internal(err)
			}
			if taken {
				return model.User{}, emailExists()
			}
			upd.Email = &email
		}
	}
	if in.NewPassword != nil {
		if in.CurrentPassword == nil || !utils.VerifyPassword(u.PasswordHash, *in.CurrentPassword) {
			return model.User{}, apperr.Authentication(MsgWrongPassword)
		}
		hash, err := utils.HashNewPassword(*in.NewPassword, s.BcryptCost)
		if err != nil {
			if errors.Is(err, utils.ErrPasswordTooShort) {
				return model.User{}, apperr.Validation(err.Error())
			}
			return model.User{}, internal(err)
		}
		upd.PasswordHash = &hash
	}

	if err := s.Users.UpdateProfile(ctx, userID, upd); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, emailExists()
		}
		return model.User{}, internal(err)
	}
	fresh, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, internal(err)
	}
	return fresh, nil
}

// UserDetails returns the caller's own account.
func (s *AuthService) UserDetails(ctx context.Context, callerID uint64) (model.User, error) {
	u, err := s.Users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, apperr.NotFound("User not found")
		}
		return model.User{}, internal(err)
	}
	return u, nil
}

// TouristProfile returns the public projection of a tourist.
func (s *AuthService) TouristProfile(ctx context.Context, touristID uint64) (model.PublicProfile, error) {
	p, err := s.Users.TouristProfile(ctx, touristID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicProfile{}, apperr.NotFound(MsgTouristNotFound)
		}
		return model.PublicProfile{}, internal(err)
	}
	return p, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
