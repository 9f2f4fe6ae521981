package agentpay_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentpay/agentpay"
)

func TestCardPrefsUpsertForCard(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	userID := uuid.New()

	created, err := repo.CardPrefs().UpsertForCard(ctx, &agentpay.CardPreferences{
		UserID:           userID,
		MethodCardID:     "acc_cc_1234",
		AutopayEnabled:   true,
		ReminderDays:     5,
		MaxAutopayAmount: 50000,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	t.Run("second upsert replaces the same row", func(t *testing.T) {
		updated, err := repo.CardPrefs().UpsertForCard(ctx, &agentpay.CardPreferences{
			UserID:           userID,
			MethodCardID:     "acc_cc_1234",
			AutopayEnabled:   false,
			ReminderDays:     10,
			MaxAutopayAmount: 75000,
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)

		found, err := repo.CardPrefs().GetForCard(ctx, userID, "acc_cc_1234")
		require.NoError(t, err)
		assert.Equal(t, 10, found.ReminderDays)
		assert.Equal(t, int64(75000), found.MaxAutopayAmount)
	})

	t.Run("different card gets its own row", func(t *testing.T) {
		other, err := repo.CardPrefs().UpsertForCard(ctx, &agentpay.CardPreferences{
			UserID:       userID,
			MethodCardID: "acc_cc_5678",
			ReminderDays: 2,
		})
		require.NoError(t, err)
		assert.NotEqual(t, created.ID, other.ID)
	})
}

func TestCardPrefsGetForCard(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.CardPrefs().GetForCard(ctx, uuid.New(), "acc_cc_none")
	require.Error(t, err)
	assert.True(t, agentpay.IsNotFound(err))
}

func TestCardPrefsListForUser(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	otherID := uuid.New()

	for _, cardID := range []string{"acc_cc_a", "acc_cc_b"} {
		_, err := repo.CardPrefs().UpsertForCard(ctx, &agentpay.CardPreferences{
			UserID:       userID,
			MethodCardID: cardID,
		})
		require.NoError(t, err)
	}

	_, err := repo.CardPrefs().UpsertForCard(ctx, &agentpay.CardPreferences{
		UserID:       otherID,
		MethodCardID: "acc_cc_c",
	})
	require.NoError(t, err)

	records, err := repo.CardPrefs().ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, userID, record.UserID)
	}
}

func TestCardPrefsDeleteForCard(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	userID := uuid.New()

	_, err := repo.CardPrefs().UpsertForCard(ctx, &agentpay.CardPreferences{
		UserID:       userID,
		MethodCardID: "acc_cc_gone",
	})
	require.NoError(t, err)

	require.NoError(t, repo.CardPrefs().DeleteForCard(ctx, userID, "acc_cc_gone"))

	_, err = repo.CardPrefs().GetForCard(ctx, userID, "acc_cc_gone")
	assert.True(t, agentpay.IsNotFound(err))

	t.Run("deleting a missing row reports not found", func(t *testing.T) {
		err := repo.CardPrefs().DeleteForCard(ctx, userID, "acc_cc_gone")
		assert.True(t, agentpay.IsNotFound(err))
	})
}
