package model

import "time"

// Roles a user can hold.  The role is chosen at signup and never changes.
const (
    RoleTourist  = "TOURIST"
    RoleBusiness = "BUSINESS"
)

// User represents an account as stored in the `users` table.  Each
// field corresponds to a column.  PasswordHash is never serialized;
// handlers return the struct as-is and rely on the `-` tag to strip it.
//
// Fields:
//  ID           – primary key identifier (shared with tourists/businesses).
//  Name         – display name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – TOURIST or BUSINESS.
//  ContactNo    – optional phone number.
//  ImageURL     – optional avatar URL.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    `db:"id" json:"id"`                   // users.id
    Name         string    `db:"name" json:"name"`               // users.name
    Email        string    `db:"email" json:"email"`             // users.email
    PasswordHash string    `db:"password_hash" json:"-"`         // users.password_hash
    Role         string    `db:"role" json:"role"`               // users.role
    ContactNo    *string   `db:"contact_no" json:"contactNo"`    // users.contact_no (nullable)
    ImageURL     *string   `db:"image_url" json:"imageUrl"`      // users.image_url (nullable)
    CreatedAt    time.Time `db:"created_at" json:"createdAt"`    // users.created_at
    UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`    // users.updated_at
}

// IsTourist reports whether the account books events.
func (u *User) IsTourist() bool { return u.Role == RoleTourist }

// Account is a user together with its role-specific profile ids.  A
// profile id is nil when the matching row does not exist.
type Account struct {
    User
    TouristID  *uint64 `db:"tourist_id"`
    BusinessID *uint64 `db:"business_id"`
}

// PublicProfile is the projection exposed without authentication.
type PublicProfile struct {
    ID        uint64  `db:"id" json:"id"`
    Name      string  `db:"name" json:"name"`
    Email     string  `db:"email" json:"email"`
    ContactNo *string `db:"contact_no" json:"contactNo"`
    ImageURL  *string `db:"image_url" json:"imageUrl"`
}

// ProfileUpdate carries the editable profile fields.  Nil pointers
// leave the column untouched.
type ProfileUpdate struct {
    Name         *string
    Email        *string
    ContactNo    *string
    ImageURL     *string
    PasswordHash *string
}
