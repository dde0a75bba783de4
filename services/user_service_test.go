package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	album := createAlbum(t, db, "Base Set", 1)
	cards := createCards(t, db, album, 3)
	user := createUser(t, db, "ash")

	createOwnership(t, db, user, cards[0], 1)
	createOwnership(t, db, user, cards[1], 2)

	stats, err := svc.GetUserStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCards)
	assert.Equal(t, 2, stats.UniqueCards)
	assert.Equal(t, 67, stats.CompletionPercentage) // round(2/3*100)
}

func TestGetUserStatsEmptyCollection(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	album := createAlbum(t, db, "Base Set", 1)
	createCards(t, db, album, 5)
	user := createUser(t, db, "ash")

	stats, err := svc.GetUserStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCards)
	assert.Equal(t, 0, stats.UniqueCards)
	assert.Equal(t, 0, stats.CompletionPercentage)
}

func TestGetUserStatsNoCardsInSystem(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user := createUser(t, db, "ash")

	stats, err := svc.GetUserStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.CompletionPercentage)
}

func TestGetUserStatsUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.GetUserStats(uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetRankingOrderAndPositions(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	album := createAlbum(t, db, "Base Set", 1)
	cards := createCards(t, db, album, 4)

	full := createUser(t, db, "full")
	for _, card := range cards {
		createOwnership(t, db, full, card, 1)
	}
	half := createUser(t, db, "half")
	createOwnership(t, db, half, cards[0], 5)
	createOwnership(t, db, half, cards[1], 1)
	createUser(t, db, "empty")

	ranking, err := svc.GetRanking()
	require.NoError(t, err)
	require.Len(t, ranking, 3)

	assert.Equal(t, "full", ranking[0].Username)
	assert.Equal(t, 100, ranking[0].CompletionPercentage)
	assert.Equal(t, "half", ranking[1].Username)
	assert.Equal(t, 50, ranking[1].CompletionPercentage)
	assert.Equal(t, 6, ranking[1].TotalCards)
	assert.Equal(t, "empty", ranking[2].Username)
	assert.Equal(t, 0, ranking[2].CompletionPercentage)

	for i, entry := range ranking {
		assert.Equal(t, i+1, entry.Position)
	}
}

func TestGetRankingTieBrokenByUniqueCards(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	// 201 cards: 101/201 and 100/201 both round to 50%, so the tie on
	// completion is broken by unique-card count.
	album := createAlbum(t, db, "Mega Set", 1)
	cards := createCards(t, db, album, 201)

	smaller := createUser(t, db, "smaller")
	for _, card := range cards[:100] {
		createOwnership(t, db, smaller, card, 1)
	}
	bigger := createUser(t, db, "bigger")
	for _, card := range cards[:101] {
		createOwnership(t, db, bigger, card, 1)
	}

	ranking, err := svc.GetRanking()
	require.NoError(t, err)
	require.Len(t, ranking, 2)

	assert.Equal(t, ranking[0].CompletionPercentage, ranking[1].CompletionPercentage)
	assert.Equal(t, "bigger", ranking[0].Username)
	assert.Equal(t, 1, ranking[0].Position)
	assert.Equal(t, "smaller", ranking[1].Username)
	assert.Equal(t, 2, ranking[1].Position)
}

func TestGetRankingNoUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	ranking, err := svc.GetRanking()
	require.NoError(t, err)
	assert.Empty(t, ranking)
}

func TestGetRankingNoCardsInSystem(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	createUser(t, db, "a")
	createUser(t, db, "b")

	ranking, err := svc.GetRanking()
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	for _, entry := range ranking {
		assert.Equal(t, 0, entry.CompletionPercentage)
	}
	assert.Equal(t, 1, ranking[0].Position)
	assert.Equal(t, 2, ranking[1].Position)
}

func TestCompletionPercentRounding(t *testing.T) {
	assert.Equal(t, 0, completionPercent(0, 0))
	assert.Equal(t, 0, completionPercent(5, 0))
	assert.Equal(t, 67, completionPercent(2, 3))
	assert.Equal(t, 33, completionPercent(1, 3))
	assert.Equal(t, 50, completionPercent(1, 2))
	assert.Equal(t, 13, completionPercent(1, 8)) // 12.5 rounds half-up
	assert.Equal(t, 100, completionPercent(10, 10))
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user := createUser(t, db, "ash")

	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{Username: "ash_ketchum"})
	require.NoError(t, err)
	assert.Equal(t, "ash_ketchum", updated.Username)
	assert.Equal(t, user.Email, updated.Email)
}

func TestUpdateProfileDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	createUser(t, db, "misty")
	user := createUser(t, db, "ash")

	_, err := svc.UpdateProfile(user.ID, UpdateProfileInput{Username: "misty"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	createUser(t, db, "misty")
	user := createUser(t, db, "ash")

	_, err := svc.UpdateProfile(user.ID, UpdateProfileInput{Email: "misty@test.local"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}
