package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geocatch/internal/model"
	"geocatch/internal/repository"
	"geocatch/internal/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *model.User
		wantErr error
	}{
		{
			name:    "successful creation",
			user:    &model.User{Username: "alice", Email: "alice@x.com", Password: "pw1"},
			wantErr: nil,
		},
		{
			name:    "duplicate username",
			user:    &model.User{Username: "alice", Email: "other@x.com", Password: "pw2"},
			wantErr: repository.ErrDuplicate,
		},
		{
			name:    "duplicate email",
			user:    &model.User{Username: "bob", Email: "alice@x.com", Password: "pw3"},
			wantErr: repository.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.user.ID)
		})
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", "alice@x.com", "pw1")

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)

	got, err = repo.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)

	got, err = repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pw1", got.Password)

	for _, login := range []string{"alice", "alice@x.com"} {
		matches, err := repo.ListByLogin(ctx, login, login)
		require.NoError(t, err)
		require.Len(t, matches, 1, login)
		assert.Equal(t, alice.ID, matches[0].ID)
	}

	matches, err := repo.ListByLogin(ctx, "nobody", "nobody")
	require.NoError(t, err)
	assert.Empty(t, matches)

	got, err = repo.GetByID(ctx, alice.ID+100)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_ListByLoginReturnsBothMatches(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	squatter := testutil.CreateUser(t, db, "bob@x.com", "first@x.com", "pw1")
	bob := testutil.CreateUser(t, db, "bob", "bob@x.com", "pw2")

	matches, err := repo.ListByLogin(ctx, "bob@x.com", "bob@x.com")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, squatter.ID, matches[0].ID)
	assert.Equal(t, bob.ID, matches[1].ID)
}

func TestUserRepository_UpdateCredentials(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", "alice@x.com", "pw1")
	testutil.CreateUser(t, db, "bob", "bob@x.com", "pw2")

	require.NoError(t, repo.UpdateCredentials(ctx, alice.ID, "alice@y.com", "pw9"))

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@y.com", got.Email)
	assert.Equal(t, "pw9", got.Password)
	assert.Equal(t, "alice", got.Username)

	err = repo.UpdateCredentials(ctx, alice.ID, "bob@x.com", "pw9")
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}
