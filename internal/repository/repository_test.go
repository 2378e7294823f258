package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/late-show-api/internal/model"
	"github.com/iliyamo/late-show-api/internal/repository"
	"github.com/iliyamo/late-show-api/internal/testsupport"
)

func TestEpisodeListAndGet(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := repository.NewEpisodeRepo(db)
	ctx := context.Background()

	empty, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	l := testsupport.SeedLineup(t, db)
	eps, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, l.EpisodeIDs[0], eps[0].ID)
	assert.Equal(t, "2024-01-01", eps[0].Date)
	assert.Equal(t, 1, eps[0].Number)

	got, err := repo.GetByID(ctx, l.EpisodeIDs[1])
	require.NoError(t, err)
	assert.Equal(t, 2, got.Number)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrEpisodeNotFound)
}

func TestEpisodeGetWithAppearances(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := repository.NewEpisodeRepo(db)
	ctx := context.Background()
	l := testsupport.SeedLineup(t, db)

	d, err := repo.GetWithAppearances(ctx, l.EpisodeIDs[0])
	require.NoError(t, err)
	require.Len(t, d.Appearances, 2)
	first := d.Appearances[0]
	assert.Equal(t, l.AppearanceIDs[0], first.ID)
	assert.Equal(t, 4, first.Rating)
	assert.Equal(t, l.EpisodeIDs[0], first.EpisodeID)
	assert.Equal(t, model.Guest{ID: l.GuestIDs[0], Name: "Taylor Star", Occupation: "Comedian"}, first.Guest)

	e := model.Episode{Date: "2024-03-01", Number: 9}
	require.NoError(t, repo.Create(ctx, &e))
	lonely, err := repo.GetWithAppearances(ctx, e.ID)
	require.NoError(t, err)
	assert.NotNil(t, lonely.Appearances)
	assert.Empty(t, lonely.Appearances)

	_, err = repo.GetWithAppearances(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrEpisodeNotFound)
}

func TestEpisodeDeleteCascades(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := repository.NewEpisodeRepo(db)
	ctx := context.Background()
	l := testsupport.SeedLineup(t, db)

	removed, err := repo.Delete(ctx, l.EpisodeIDs[0])
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	_, err = repo.GetByID(ctx, l.EpisodeIDs[0])
	assert.ErrorIs(t, err, repository.ErrEpisodeNotFound)
	assert.Zero(t, testsupport.Count(t, db, "appearances", "episode_id = ?", l.EpisodeIDs[0]))
	assert.Equal(t, 1, testsupport.Count(t, db, "appearances", ""))
	assert.Equal(t, 3, testsupport.Count(t, db, "guests", ""))
}

func TestEpisodeDeleteMissingHasNoSideEffects(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := repository.NewEpisodeRepo(db)
	testsupport.SeedLineup(t, db)

	_, err := repo.Delete(context.Background(), 9999)
	assert.ErrorIs(t, err, repository.ErrEpisodeNotFound)
	assert.Equal(t, 2, testsupport.Count(t, db, "episodes", ""))
	assert.Equal(t, 3, testsupport.Count(t, db, "appearances", ""))
}

func TestGuestDeleteCascades(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	guests := repository.NewGuestRepo(db)
	apps := repository.NewAppearanceRepo(db)
	ctx := context.Background()
	l := testsupport.SeedLineup(t, db)

	// give guest 0 a second appearance so M > 1
	_, err := apps.Create(ctx, &model.Appearance{Rating: 2, EpisodeID: l.EpisodeIDs[1], GuestID: l.GuestIDs[0]})
	require.NoError(t, err)

	removed, err := guests.Delete(ctx, l.GuestIDs[0])
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	n, err := apps.CountByGuest(ctx, l.GuestIDs[0])
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, testsupport.Count(t, db, "episodes", ""))
	assert.Equal(t, 2, testsupport.Count(t, db, "guests", ""))
	assert.Equal(t, 2, testsupport.Count(t, db, "appearances", ""))

	_, err = guests.Delete(ctx, l.GuestIDs[0])
	assert.ErrorIs(t, err, repository.ErrGuestNotFound)
}

func TestGuestListAndGet(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := repository.NewGuestRepo(db)
	ctx := context.Background()
	l := testsupport.SeedLineup(t, db)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Jordan Art", all[2].Name)

	g, err := repo.GetByID(ctx, l.GuestIDs[1])
	require.NoError(t, err)
	assert.Equal(t, "Actor", g.Occupation)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrGuestNotFound)
}

func TestAppearanceCreateReturnsParents(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := repository.NewAppearanceRepo(db)
	ctx := context.Background()
	l := testsupport.SeedLineup(t, db)

	for r := model.MinRating; r <= model.MaxRating; r++ {
		a, err := model.NewAppearance(r, l.EpisodeIDs[1], l.GuestIDs[0])
		require.NoError(t, err)
		d, err := repo.Create(ctx, a)
		require.NoError(t, err)
		assert.NotZero(t, d.ID)
		assert.Equal(t, d.ID, a.ID)
		assert.Equal(t, r, d.Rating)
		assert.Equal(t, l.EpisodeIDs[1], d.Episode.ID)
		assert.Equal(t, "Taylor Star", d.Guest.Name)
	}
	n, err := repo.CountByEpisode(ctx, l.EpisodeIDs[1])
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestAppearanceCreateRejectsBadInput(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := repository.NewAppearanceRepo(db)
	ctx := context.Background()
	l := testsupport.SeedLineup(t, db)

	cases := []struct {
		name string
		in   model.Appearance
		want error
	}{
		{"rating too high", model.Appearance{Rating: 6, EpisodeID: l.EpisodeIDs[0], GuestID: l.GuestIDs[0]}, model.ErrRatingOutOfRange},
		{"missing episode", model.Appearance{Rating: 4, EpisodeID: 9999, GuestID: l.GuestIDs[0]}, repository.ErrReferenceNotFound},
		{"missing guest", model.Appearance{Rating: 4, EpisodeID: l.EpisodeIDs[0], GuestID: 9999}, repository.ErrReferenceNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.in
			_, err := repo.Create(ctx, &in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
	assert.Equal(t, 3, testsupport.Count(t, db, "appearances", ""))
}
