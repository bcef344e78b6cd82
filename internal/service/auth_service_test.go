package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/tourist-event-booking/internal/model"
	"github.com/iliyamo/tourist-event-booking/internal/utils"
)

func strp(s string) *string { return &s }

func authFixture(t *testing.T) (*memStore, *AuthService, *recordingNotifier) {
	t.Helper()
	m := newMemStore()
	n := &recordingNotifier{}
	return m, NewAuthService(m, n, "test-secret", 120, bcrypt.MinCost), n
}

func TestSignup_CreatesUserAndSendsWelcome(t *testing.T) {
	m, svc, n := authFixture(t)
	id, err := svc.Signup(context.Background(), SignupInput{Name: "Ana", Email: "Ana@Example.com", Password: "secret1", Role: "tourist"})
	require.NoError(t, err)

	u := m.users[id]
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, model.RoleTourist, u.Role)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "secret1"))
	require.Len(t, n.sent, 1)
	assert.Equal(t, "ana@example.com", n.sent[0].To)

	_, err = svc.Signup(context.Background(), SignupInput{Name: "Ana 2", Email: "ana@example.com", Password: "secret1", Role: "TOURIST"})
	wantErr(t, err, http.StatusBadRequest, "Email already exists")
}

func TestSignin_RoundTripAndUniformFailure(t *testing.T) {
	_, svc, _ := authFixture(t)
	ctx := context.Background()
	id, err := svc.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@example.com", Password: "secret1", Role: model.RoleTourist})
	require.NoError(t, err)

	res, err := svc.Signin(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleTourist, res.Role)
	assert.WithinDuration(t, time.Now().Add(120*time.Minute), res.Expiry, 5*time.Second)

	ident, err := utils.ParseAccessToken("test-secret", res.Token)
	require.NoError(t, err)
	assert.Equal(t, id, ident.UserID)
	assert.Equal(t, model.RoleTourist, ident.Role)
	assert.Equal(t, "Ana", ident.Name)

	_, errWrongPass := svc.Signin(ctx, "ana@example.com", "nope123")
	_, errUnknown := svc.Signin(ctx, "ghost@example.com", "secret1")
	wantErr(t, errWrongPass, http.StatusBadRequest, "Invalid email or password")
	wantErr(t, errUnknown, http.StatusBadRequest, "Invalid email or password")
}

func TestUpdateProfile_Rules(t *testing.T) {
	m, svc, _ := authFixture(t)
	ctx := context.Background()
	hash, err := utils.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	m.addUser(1, "Ana", "ana@example.com", model.RoleTourist, hash)
	m.addUser(2, "Ben", "ben@example.com", model.RoleTourist, hash)

	_, err = svc.UpdateProfile(ctx, 2, 1, ProfileInput{Name: strp("x")})
	wantErr(t, err, http.StatusForbidden, "You can only update your own profile")

	_, err = svc.UpdateProfile(ctx, 1, 1, ProfileInput{Email: strp("BEN@example.com")})
	wantErr(t, err, http.StatusBadRequest, "Email already exists")

	_, err = svc.UpdateProfile(ctx, 1, 1, ProfileInput{CurrentPassword: strp("wrong1"), NewPassword: strp("newpass")})
	wantErr(t, err, http.StatusUnauthorized, "Current password is incorrect")

	_, err = svc.UpdateProfile(ctx, 1, 1, ProfileInput{CurrentPassword: strp("secret1"), NewPassword: strp("abc")})
	wantErr(t, err, http.StatusBadRequest, "Password must be at least 6 characters long")

	u, err := svc.UpdateProfile(ctx, 1, 1, ProfileInput{
		Name: strp(" Ana B "), ContactNo: strp("+100"),
		CurrentPassword: strp("secret1"), NewPassword: strp("newpass1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana B", u.Name)
	assert.Equal(t, "+100", *u.ContactNo)
	assert.True(t, utils.VerifyPassword(m.users[1].PasswordHash, "newpass1"))
}

func TestTouristProfile_NotFound(t *testing.T) {
	m, svc, _ := authFixture(t)
	m.addUser(5, "Biz", "biz@example.com", model.RoleBusiness, "")
	_, err := svc.TouristProfile(context.Background(), 5)
	wantErr(t, err, http.StatusNotFound, "Tourist not found")
}

func TestEventService_ListAndUpdate(t *testing.T) {
	m := newMemStore()
	purger := &countingPurger{}
	svc := NewEventService(eventStore{m}, purger)
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	m.events[1] = model.Event{ID: 1, BusinessID: 7, Name: "Late", Date: base.Add(48 * time.Hour), MaximumCount: 10, Status: model.EventStatusActive}
	m.events[2] = model.Event{ID: 2, BusinessID: 7, Name: "Early", Date: base, MaximumCount: 10, Status: model.EventStatusActive}
	m.events[3] = model.Event{ID: 3, BusinessID: 7, Name: "Hidden", Date: base, MaximumCount: 10, Status: "inactive"}
	m.prices[1] = model.PriceCategory{ID: 1, EventID: 2, Price: 9}
	m.prices[2] = model.PriceCategory{ID: 2, EventID: 2, Price: 4}

	page, err := svc.ListEvents(context.Background(), utils.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Events, 2)
	assert.Equal(t, "Early", page.Events[0].Name)
	assert.Equal(t, int64(4), page.Events[0].Price)
	assert.Equal(t, int64(0), page.Events[1].Price)

	_, err = svc.UpdateEvent(context.Background(), 8, model.RoleBusiness, 1, strp("Mine now"), nil)
	wantErr(t, err, http.StatusForbidden, "You can only update your own events")
	_, err = svc.UpdateEvent(context.Background(), 7, model.RoleBusiness, 99, strp("x"), nil)
	wantErr(t, err, http.StatusNotFound, "Event not found")

	ev, err := svc.UpdateEvent(context.Background(), 7, model.RoleBusiness, 1, nil, strp("Pier 4"))
	require.NoError(t, err)
	assert.Equal(t, "Pier 4", ev.Location)
	assert.Equal(t, 1, purger.n)
}
