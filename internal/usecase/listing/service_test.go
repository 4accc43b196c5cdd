package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainListing "rideshare-backend/internal/domain/listing"
	domainUser "rideshare-backend/internal/domain/user"
	"rideshare-backend/internal/infrastructure/database/postgres"
	"rideshare-backend/internal/testutil"
	appErrors "rideshare-backend/pkg/errors"
)

func setup(t *testing.T) (*Service, *postgres.UserRepository) {
	db := testutil.NewDB(t)
	return NewService(postgres.NewListingRepository(db)), postgres.NewUserRepository(db)
}

func createUser(t *testing.T, users *postgres.UserRepository, name string) *domainUser.User {
	t.Helper()
	u := &domainUser.User{Email: name + "@example.com", Username: name, PasswordHashed: "h", Role: domainUser.RoleDriver}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func validCreate(title string) *CreateRequest {
	return &CreateRequest{
		Title:        title,
		DepartTime:   "08:00",
		ArrivalTime:  "10:15",
		DepartPlace:  "Paris",
		ArrivalPlace: "Lyon",
		Price:        20,
	}
}

func TestCreate(t *testing.T) {
	svc, users := setup(t)
	owner := createUser(t, users, "driver")

	resp, err := svc.Create(context.Background(), owner.ID, validCreate("morning"))
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", resp.DepartTime)
	assert.Equal(t, "10:15:00", resp.ArrivalTime)
	assert.Equal(t, 1, resp.Seats)
	assert.Equal(t, "driver", resp.Owner)
	assert.False(t, resp.Reserved)

	_, err = svc.Create(context.Background(), owner.ID, validCreate("morning"))
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
	assert.ErrorIs(t, err, domainListing.ErrTitleTaken)

	bad := validCreate("bad")
	bad.DepartTime = "25:00"
	_, err = svc.Create(context.Background(), owner.ID, bad)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
}

func TestSearch(t *testing.T) {
	svc, users := setup(t)
	owner := createUser(t, users, "driver")
	ctx := context.Background()

	_, err := svc.Create(ctx, owner.ID, validCreate("one"))
	require.NoError(t, err)

	found, err := svc.Search(ctx, "Paris", "Lyon")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.Search(ctx, "PARIS", "Lyon")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestSearch_PlacesKeptVerbatim(t *testing.T) {
	svc, users := setup(t)
	owner := createUser(t, users, "driver")
	ctx := context.Background()

	req := validCreate("station run")
	req.DepartPlace = " Lyon <Part-Dieu> "
	req.ArrivalPlace = "Paris <Gare de Lyon>"
	created, err := svc.Create(ctx, owner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Lyon <Part-Dieu>", created.DepartPlace)
	assert.Equal(t, "Paris <Gare de Lyon>", created.ArrivalPlace)

	found, err := svc.Search(ctx, "Lyon <Part-Dieu>", "Paris <Gare de Lyon>")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)
}

func TestCreate_RejectsSlashes(t *testing.T) {
	svc, users := setup(t)
	owner := createUser(t, users, "driver")
	ctx := context.Background()

	_, err := svc.Create(ctx, owner.ID, validCreate("Paris/Lyon 8h"))
	require.Error(t, err)
	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "title")

	created, err := svc.Create(ctx, owner.ID, validCreate("Paris to Lyon 8h"))
	require.NoError(t, err)

	renamed := "Paris/Lyon"
	_, err = svc.Update(ctx, owner.ID, domainListing.ByID(created.ID), &UpdateRequest{Title: &renamed})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))

	got, err := svc.Get(ctx, domainListing.ByTitle("Paris to Lyon 8h"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdateAndDelete_OwnerOnly(t *testing.T) {
	svc, users := setup(t)
	owner := createUser(t, users, "driver")
	other := createUser(t, users, "other")
	ctx := context.Background()

	created, err := svc.Create(ctx, owner.ID, validCreate("morning"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, validCreate("evening"))
	require.NoError(t, err)

	price := 35.5
	_, err = svc.Update(ctx, other.ID, domainListing.ByTitle("morning"), &UpdateRequest{Price: &price})
	assert.ErrorIs(t, err, domainListing.ErrNotOwner)

	updated, err := svc.Update(ctx, owner.ID, domainListing.ByID(created.ID), &UpdateRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 35.5, updated.Price)
	assert.Equal(t, "morning", updated.Title)

	taken := "evening"
	_, err = svc.Update(ctx, owner.ID, domainListing.ByID(created.ID), &UpdateRequest{Title: &taken})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))

	assert.ErrorIs(t, svc.Delete(ctx, other.ID, domainListing.ByID(created.ID)), domainListing.ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, owner.ID, domainListing.ByTitle("morning")))

	_, err = svc.Get(ctx, domainListing.ByID(created.ID))
	assert.ErrorIs(t, err, domainListing.ErrListingNotFound)

	mine, err := svc.ListMine(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
