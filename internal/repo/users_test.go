package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkhromov/retail_orders/internal/hash"
	"github.com/vkhromov/retail_orders/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestCreateUser_RequiresEmail(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	_, err := r.CreateUser(context.Background(), CreateUserParams{Password: "secret"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateUser_NormalizesEmailAndDefaults(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	user, err := r.CreateUser(context.Background(), CreateUserParams{
		Email:    "Buyer@EXAMPLE.Com",
		Password: "secret",
		Username: "buyer_1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Buyer@example.com", user.Email)
	assert.Equal(t, models.UserTypeBuyer, user.Type)
	assert.False(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)
	assert.True(t, hash.CheckPassword(user.PasswordHash, "secret"))
}

func TestCreateUser_RejectsBadUsername(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "spaces", username: "user name", wantErr: true},
		{name: "comma", username: "user,name", wantErr: true},
		{name: "allowed set", username: "user.name@host+x-1_2", wantErr: false},
	}

	for i, tt := range tests {
		tt := tt
		email := string(rune('a'+i)) + "@example.com"
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.CreateUser(context.Background(), CreateUserParams{
				Email:    email,
				Password: "secret",
				Username: tt.username,
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.CreateUser(ctx, CreateUserParams{Email: "dup@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = r.CreateUser(ctx, CreateUserParams{Email: "dup@example.com", Password: "other"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateSuperuser_SetsFlags(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	user, err := r.CreateSuperuser(context.Background(), CreateUserParams{
		Email:    "admin@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
}

func TestCreateSuperuser_RejectsExplicitFalse(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.CreateSuperuser(ctx, CreateUserParams{
		Email:    "admin@example.com",
		Password: "secret",
		IsStaff:  boolPtr(false),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = r.CreateSuperuser(ctx, CreateUserParams{
		Email:       "admin@example.com",
		Password:    "secret",
		IsSuperuser: boolPtr(false),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateUser_NormalizesEmail(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	user, err := r.CreateUser(ctx, CreateUserParams{Email: "old@example.com", Password: "secret"})
	require.NoError(t, err)

	updated, err := r.UpdateUser(ctx, user.ID, map[string]any{"email": "New@EXAMPLE.com", "company": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "New@example.com", updated.Email)
	assert.Equal(t, "Acme", updated.Company)
}
