package services_test

import (
	"testing"

	"garment_tracker/internal/models"
	"garment_tracker/internal/repository"
	"garment_tracker/internal/services"
	"garment_tracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRegisterAndAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := services.NewUserService(db, repository.NewUserRepository(db))
	admin := services.Actor{ID: 1, Area: models.AreaAdmin}

	user, err := users.Register(services.RegisterUserRequest{
		Username: "maria",
		Password: "secreta1",
		Name:     "María López",
		Area:     models.AreaCalidad,
	}, admin)
	require.NoError(t, err)
	assert.NotEqual(t, "secreta1", user.Password)

	authed, err := users.Authenticate("maria", "secreta1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = users.Authenticate("maria", "wrong")
	assert.True(t, services.IsAuthorization(err))

	_, err = users.Authenticate("nobody", "secreta1")
	assert.True(t, services.IsAuthorization(err))

	// Duplicate username.
	_, err = users.Register(services.RegisterUserRequest{
		Username: "maria", Password: "secreta1", Name: "Otra", Area: models.AreaCorte,
	}, admin)
	assert.True(t, services.IsValidation(err))

	// Non-admins cannot register users.
	_, err = users.Register(services.RegisterUserRequest{
		Username: "pedro", Password: "secreta1", Name: "Pedro", Area: models.AreaCorte,
	}, services.Actor{ID: 2, Area: models.AreaCorte})
	assert.True(t, services.IsAuthorization(err))
}

func TestAdminPasswordRotation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := services.NewUserService(db, repository.NewUserRepository(db))
	admin := services.Actor{ID: 1, Area: models.AreaAdmin}

	// No password configured yet.
	ok, err := users.VerifyAdminPassword("anything")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, users.CreateAdminPassword("borrar123", admin))

	ok, err = users.VerifyAdminPassword("borrar123")
	require.NoError(t, err)
	assert.True(t, ok)

	// Rotation deactivates the previous password.
	require.NoError(t, users.CreateAdminPassword("nueva456", admin))

	ok, err = users.VerifyAdminPassword("borrar123")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = users.VerifyAdminPassword("nueva456")
	require.NoError(t, err)
	assert.True(t, ok)
}
