package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/tourist-event-booking/internal/model"
)

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role, u.contact_no, u.image_url, u.created_at, u.updated_at`

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lowercases and trims an address before it touches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateWithProfile inserts the user and its tourist or business row in a
// single transaction and returns the new id.  Both rows share the id.
func (r *UserRepo) CreateWithProfile(ctx context.Context, name, email, passwordHash, role string) (uint64, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		strings.TrimSpace(name), NormalizeEmail(email), passwordHash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	profile := "INSERT INTO tourists (id) VALUES (?)"
	if role == model.RoleBusiness {
		profile = "INSERT INTO businesses (id) VALUES (?)"
	}
	if _, err := tx.ExecContext(ctx, profile, id); err != nil {
		return 0, fmt.Errorf("insert %s profile: %w", strings.ToLower(role), err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u,
		"SELECT "+userColumns+" FROM users u WHERE u.email=? LIMIT 1", NormalizeEmail(email))
	return u, notFound(err)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u,
		"SELECT "+userColumns+" FROM users u WHERE u.id=? LIMIT 1", id)
	return u, notFound(err)
}

// GetAccount fetches a user with its tourist and business profile ids.
func (r *UserRepo) GetAccount(ctx context.Context, id uint64) (model.Account, error) {
	var a model.Account
	err := r.DB.GetContext(ctx, &a,
		"SELECT "+userColumns+", t.id AS tourist_id, b.id AS business_id"+
			" FROM users u"+
			" LEFT JOIN tourists t ON t.id = u.id"+
			" LEFT JOIN businesses b ON b.id = u.id"+
			" WHERE u.id=? LIMIT 1", id)
	return a, notFound(err)
}

// EmailTakenByOther reports whether another user already owns email.
func (r *UserRepo) EmailTakenByOther(ctx context.Context, email string, userID uint64) (bool, error) {
	var n int
	err := r.DB.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM users WHERE email=? AND id<>?", NormalizeEmail(email), userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateProfile writes the non-nil fields of upd.  A unique violation on
// email is reported as ErrEmailExists.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, upd model.ProfileUpdate) error {
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, *v)
		}
	}
	add("name", upd.Name)
	if upd.Email != nil {
		e := NormalizeEmail(*upd.Email)
		add("email", &e)
	}
	add("contact_no", upd.ContactNo)
	add("image_url", upd.ImageURL)
	add("password_hash", upd.PasswordHash)
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	// MySQL reports zero affected rows for unchanged values, so the
	// count says nothing about existence.
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return nil
}

// TouristProfile returns the public projection of a tourist.
func (r *UserRepo) TouristProfile(ctx context.Context, touristID uint64) (model.PublicProfile, error) {
	var p model.PublicProfile
	err := r.DB.GetContext(ctx, &p,
		"SELECT u.id, u.name, u.email, u.contact_no, u.image_url"+
			" FROM tourists t JOIN users u ON u.id = t.id"+
			" WHERE t.id=? LIMIT 1", touristID)
	return p, notFound(err)
}
