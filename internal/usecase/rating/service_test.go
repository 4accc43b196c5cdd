package rating

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainRating "rideshare-backend/internal/domain/rating"
	domainUser "rideshare-backend/internal/domain/user"
	"rideshare-backend/internal/infrastructure/database/postgres"
	"rideshare-backend/internal/infrastructure/database/postgres/models"
	"rideshare-backend/internal/testutil"
	appErrors "rideshare-backend/pkg/errors"
)

type fixture struct {
	db    *postgres.DB
	svc   *Service
	users *postgres.UserRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	users := postgres.NewUserRepository(db)
	return &fixture{
		db:    db,
		svc:   NewService(postgres.NewRatingRepository(db), users),
		users: users,
	}
}

func (f *fixture) user(t *testing.T, name string) *domainUser.User {
	t.Helper()
	u := &domainUser.User{Email: name + "@example.com", Username: name, PasswordHashed: "h", Role: domainUser.RoleClient}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func score(v int) *int { return &v }

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	f.user(t, "bob")

	resp, err := f.svc.Create(ctx, alice.ID, ByUsername("bob"), &CreateRequest{Title: "Great", Rating: score(5), Comment: "On time"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, "bob", resp.Recipient)
	assert.Equal(t, 5, resp.Rating)

	_, err = f.svc.Create(ctx, alice.ID, ByEmail("bob@example.com"), &CreateRequest{Title: "Ok", Rating: score(0)})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, alice.ID, ByUsername("bob"), &CreateRequest{Title: "Too much", Rating: score(6)})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
	assert.ErrorIs(t, err, domainRating.ErrScoreOutOfRange)

	_, err = f.svc.Create(ctx, alice.ID, ByUsername("bob"), &CreateRequest{Title: "Missing"})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))

	_, err = f.svc.Create(ctx, alice.ID, ByUsername("ghost"), &CreateRequest{Title: "x", Rating: score(3)})
	assert.ErrorIs(t, err, domainUser.ErrUserNotFound)

	authored, err := f.svc.ListAuthored(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, authored, 2)
}

func TestCreate_ReturnsInsertedRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	// A newer row between the same pair, as left by a concurrent request.
	later := time.Now().Add(time.Hour)
	require.NoError(t, f.db.DB.Create(&models.RatingModel{
		Title: "Other", Score: 1, Comment: "late", AuthorID: alice.ID, RecipientID: bob.ID,
		CreatedAt: later, UpdatedAt: later,
	}).Error)

	resp, err := f.svc.Create(ctx, alice.ID, ByUsername("bob"), &CreateRequest{Title: "Mine", Rating: score(4), Comment: "smooth"})
	require.NoError(t, err)
	assert.Equal(t, "Mine", resp.Title)
	assert.Equal(t, 4, resp.Rating)
	assert.Equal(t, "smooth", resp.Comment)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, "bob", resp.Recipient)

	var stored models.RatingModel
	require.NoError(t, f.db.DB.First(&stored, resp.ID).Error)
	assert.Equal(t, "Mine", stored.Title)
}

func TestListReceived_Summary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	carol := f.user(t, "carol")
	bob := f.user(t, "bob")

	for _, tc := range []struct {
		author uint
		score  int
	}{{alice.ID, 4}, {carol.ID, 1}, {carol.ID, 2}} {
		_, err := f.svc.Create(ctx, tc.author, ByUsername("bob"), &CreateRequest{Title: "t", Rating: score(tc.score)})
		require.NoError(t, err)
	}

	got, err := f.svc.ListReceived(ctx, ByEmail("bob@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "bob", got.User)
	assert.Equal(t, int64(3), got.Count)
	assert.InDelta(t, 2.33, got.Average, 0.001)
	assert.Len(t, got.Ratings, 3)

	mine, err := f.svc.ListMine(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), mine.Count)

	empty, err := f.svc.ListMine(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Count)
	assert.Zero(t, empty.Average)
	assert.Empty(t, empty.Ratings)
}

func TestUpdateLatestAndDeleteAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	f.user(t, "bob")

	_, err := f.svc.UpdateLatest(ctx, alice.ID, "bob", &UpdateRequest{Rating: score(1)})
	assert.ErrorIs(t, err, domainRating.ErrRatingNotFound)

	_, err = f.svc.Create(ctx, alice.ID, ByUsername("bob"), &CreateRequest{Title: "first", Rating: score(2)})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, alice.ID, ByUsername("bob"), &CreateRequest{Title: "second", Rating: score(3)})
	require.NoError(t, err)

	comment := "Changed my mind"
	updated, err := f.svc.UpdateLatest(ctx, alice.ID, "bob", &UpdateRequest{Rating: score(4), Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Title)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, comment, updated.Comment)

	_, err = f.svc.UpdateLatest(ctx, alice.ID, "bob", &UpdateRequest{Rating: score(-1)})
	assert.ErrorIs(t, err, domainRating.ErrScoreOutOfRange)

	deleted, err := f.svc.DeleteAll(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = f.svc.DeleteAll(ctx, alice.ID, "bob")
	assert.ErrorIs(t, err, domainRating.ErrRatingNotFound)
}
