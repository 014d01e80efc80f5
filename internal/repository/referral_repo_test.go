package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/internal/model"
	"github.com/qs3c/criptex_server/internal/testutil"
)

func TestReferralRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReferralRepository(db)
	referrer := testutil.TestUser(t, db)
	referee := testutil.TestUser(t, db)

	referral := &model.Referral{
		ReferrerID: referrer.ID,
		RefereeID:  referee.ID,
		Code:       referrer.ReferralCode,
		Bonus:      1,
	}
	require.NoError(t, repo.Create(referral))
	assert.NotZero(t, referral.ID)

	found, err := repo.GetByRefereeID(referee.ID)
	require.NoError(t, err)
	assert.Equal(t, referrer.ID, found.ReferrerID)
	assert.Equal(t, referrer.ReferralCode, found.Code)
}

func TestReferralRepository_Create_DuplicateReferee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReferralRepository(db)
	first := testutil.TestUser(t, db)
	second := testutil.TestUser(t, db)
	referee := testutil.TestUser(t, db)

	require.NoError(t, repo.Create(&model.Referral{
		ReferrerID: first.ID, RefereeID: referee.ID, Code: first.ReferralCode, Bonus: 1,
	}))

	err := repo.Create(&model.Referral{
		ReferrerID: second.ID, RefereeID: referee.ID, Code: second.ReferralCode, Bonus: 1,
	})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestReferralRepository_ListByReferrerID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReferralRepository(db)
	referrer := testutil.TestUser(t, db)

	for i := 0; i < 3; i++ {
		referee := testutil.TestUser(t, db)
		require.NoError(t, repo.Create(&model.Referral{
			ReferrerID: referrer.ID, RefereeID: referee.ID, Code: referrer.ReferralCode, Bonus: 1,
		}))
	}

	list, err := repo.ListByReferrerID(referrer.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = repo.ListByReferrerID("nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}
