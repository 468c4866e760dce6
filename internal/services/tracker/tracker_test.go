package tracker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackhq/subtrack/internal/cache"
	"github.com/subtrackhq/subtrack/internal/config"
	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/internal/storage"
	"github.com/subtrackhq/subtrack/internal/storage/jsonstore"
	"github.com/subtrackhq/subtrack/internal/storage/sqlitestore"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newJSONService(t *testing.T) *Service {
	t.Helper()
	st, err := jsonstore.New(t.TempDir(), newNoopLogger())
	require.NoError(t, err)
	return New(st, cache.Noop{}, newNoopLogger())
}

func newSQLiteService(t *testing.T) *Service {
	t.Helper()
	st, err := sqlitestore.New(filepath.Join(t.TempDir(), "test.db"), newNoopLogger())
	require.NoError(t, err)
	svc := New(st, cache.Noop{}, newNoopLogger())
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestService_CreateUserNormalizesEmail(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "  Alice@Example.COM ", "hash", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "free", user.Tier)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.ID)

	got, err := svc.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestService_CreateUserDuplicateEmail(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice@example.com", "hash", "")
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "Alice@example.com", "hash", "")
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestService_CreateSubscriptionDefaults(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName:  "Netflix",
		Price:        15.99,
		BillingCycle: "monthly",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCurrency, sub.Currency)
	assert.Equal(t, models.CategoryOther, sub.Category)
	assert.Equal(t, models.StatusActive, sub.Status)
	assert.NotEmpty(t, sub.ID)
	assert.False(t, sub.CreatedAt.IsZero())
}

func TestService_SubscriptionRoundTrip(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	date := "2026-09-15"
	created, err := svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName:     "爱奇艺",
		Price:           25,
		Currency:        "CNY",
		BillingCycle:    "weekly",
		Category:        "entertainment",
		Status:          "trial",
		NextBillingDate: &date,
		Notes:           "shared with family",
	})
	require.NoError(t, err)

	subs, err := svc.GetUserSubscriptions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, created, subs[0])
}

func TestService_CreateSubscriptionRejectsBadInput(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.DummySubscription
	}{
		{"zero price", models.DummySubscription{ServiceName: "X", Price: 0, BillingCycle: "monthly"}},
		{"negative price", models.DummySubscription{ServiceName: "X", Price: -5, BillingCycle: "monthly"}},
		{"unknown cycle", models.DummySubscription{ServiceName: "X", Price: 10, BillingCycle: "lifetime"}},
		{"unknown category", models.DummySubscription{ServiceName: "X", Price: 10, BillingCycle: "monthly", Category: "pets"}},
		{"unknown status", models.DummySubscription{ServiceName: "X", Price: 10, BillingCycle: "monthly", Status: "dormant"}},
		{"bad billing date", models.DummySubscription{ServiceName: "X", Price: 10, BillingCycle: "monthly", NextBillingDate: strPtr("15-09-2026")}},
		{"non-date billing date", models.DummySubscription{ServiceName: "X", Price: 10, BillingCycle: "monthly", NextBillingDate: strPtr("soon")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSubscription(ctx, "u1", tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestService_UpdateSubscriptionRejectsBadDate(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName: "Netflix", Price: 15.99, BillingCycle: "monthly",
	})
	require.NoError(t, err)

	_, err = svc.UpdateSubscription(ctx, sub.ID, models.SubscriptionUpdate{
		NextBillingDate: strPtr("2026/09/15"),
	})
	assert.ErrorIs(t, err, ErrValidation)

	ok, err := svc.UpdateSubscription(ctx, sub.ID, models.SubscriptionUpdate{
		NextBillingDate: strPtr("2026-09-15"),
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_UpdateSubscriptionPartial(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName:  "Netflix",
		Price:        15.99,
		BillingCycle: "monthly",
		Category:     "entertainment",
	})
	require.NoError(t, err)

	newPrice := 19.99
	ok, err := svc.UpdateSubscription(ctx, sub.ID, models.SubscriptionUpdate{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, ok)

	subs, err := svc.GetUserSubscriptions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 19.99, subs[0].Price)
	assert.Equal(t, "Netflix", subs[0].ServiceName)
	assert.Equal(t, models.CategoryEntertainment, subs[0].Category)
}

func TestService_UpdateSubscriptionMissing(t *testing.T) {
	svc := newJSONService(t)

	newPrice := 19.99
	ok, err := svc.UpdateSubscription(context.Background(), "missing", models.SubscriptionUpdate{Price: &newPrice})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_DeleteSubscriptionIdempotent(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName: "Netflix", Price: 15.99, BillingCycle: "monthly",
	})
	require.NoError(t, err)

	ok, err := svc.DeleteSubscription(ctx, sub.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DeleteSubscription(ctx, sub.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_GetActiveSubscriptions(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	_, err := svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName: "Netflix", Price: 15.99, BillingCycle: "monthly",
	})
	require.NoError(t, err)
	_, err = svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName: "Old Gym", Price: 50, BillingCycle: "monthly", Status: "cancelled",
	})
	require.NoError(t, err)

	active, err := svc.GetActiveSubscriptions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Netflix", active[0].ServiceName)
}

func TestService_SearchSubscriptions(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	_, err := svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName: "Netflix", Price: 15.99, BillingCycle: "monthly", Category: "entertainment",
	})
	require.NoError(t, err)
	_, err = svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName: "GymPass", Price: 100, BillingCycle: "monthly", Category: "health_fitness",
		Notes: "annual promo",
	})
	require.NoError(t, err)

	byName, err := svc.SearchSubscriptions(ctx, "u1", "netFLIX")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Netflix", byName[0].ServiceName)

	byCategory, err := svc.SearchSubscriptions(ctx, "u1", "health")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "GymPass", byCategory[0].ServiceName)

	byNotes, err := svc.SearchSubscriptions(ctx, "u1", "promo")
	require.NoError(t, err)
	require.Len(t, byNotes, 1)

	none, err := svc.SearchSubscriptions(ctx, "u1", "nothing here")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestService_GetUserOverview(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "alice@example.com", "hash", "Alice")
	require.NoError(t, err)

	for _, req := range []models.DummySubscription{
		{ServiceName: "Netflix", Price: 15.99, BillingCycle: "monthly", Category: "entertainment"},
		{ServiceName: "ChatGPT Plus", Price: 140, BillingCycle: "monthly", Category: "productivity"},
		{ServiceName: "GymPass", Price: 1200, BillingCycle: "yearly", Category: "health_fitness"},
		{ServiceName: "Old Paper", Price: 30, BillingCycle: "monthly", Category: "news_media", Status: "cancelled"},
	} {
		_, err := svc.CreateSubscription(ctx, user.ID, req)
		require.NoError(t, err)
	}

	overview, err := svc.GetUserOverview(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, overview.TotalSubscriptions)
	assert.Equal(t, 3, overview.ActiveSubscriptions)
	assert.Equal(t, 255.99, overview.MonthlySpending)
	require.NotNil(t, overview.User)
	assert.Equal(t, user.ID, overview.User.ID)

	require.Len(t, overview.SubscriptionCategories, 3)
	assert.Equal(t, models.CategoryStat{Count: 1, Spending: 15.99}, overview.SubscriptionCategories["entertainment"])
	assert.Equal(t, models.CategoryStat{Count: 1, Spending: 140}, overview.SubscriptionCategories["productivity"])
	assert.Equal(t, models.CategoryStat{Count: 1, Spending: 100}, overview.SubscriptionCategories["health_fitness"])
}

func TestService_OverviewMissingUser(t *testing.T) {
	svc := newJSONService(t)

	_, err := svc.GetUserOverview(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_SaveConversationValidation(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	_, err := svc.SaveConversation(ctx, "u1", "sess-1", "", "reply", "greeting", nil)
	assert.ErrorIs(t, err, ErrValidation)

	bad := 1.5
	_, err = svc.SaveConversation(ctx, "u1", "sess-1", "hi", "reply", "greeting", &bad)
	assert.ErrorIs(t, err, ErrValidation)

	good := 0.9
	conv, err := svc.SaveConversation(ctx, "u1", "sess-1", "hi", "reply", "greeting", &good)
	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)

	history, err := svc.GetSessionHistory(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hi", history[0].Message)
}

func TestService_OCRLifecycle(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	rec, err := svc.CreateOCRRecord(ctx, "u1", "uploads/bill.png")
	require.NoError(t, err)
	assert.Equal(t, models.OCRProcessing, rec.Status)

	done := models.OCRCompleted
	score := 0.9
	ok, err := svc.UpdateOCRRecord(ctx, rec.ID, models.OCRUpdate{
		Status:          &done,
		ConfidenceScore: &score,
		ExtractedData:   map[string]any{"service_name": "Netflix"},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	recs, err := svc.ListOCRRecords(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.OCRCompleted, recs[0].Status)
}

func TestService_SeedIsIdempotent(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	first, err := svc.Seed(ctx, "hash")
	require.NoError(t, err)

	second, err := svc.Seed(ctx, "hash")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	subs, err := svc.GetUserSubscriptions(ctx, first)
	require.NoError(t, err)
	assert.Len(t, subs, 3)
}

// Both backends fold the same records into the same overview figures.
func TestService_BackendParity(t *testing.T) {
	ctx := context.Background()
	requests := []models.DummySubscription{
		{ServiceName: "Netflix", Price: 15.99, BillingCycle: "monthly", Category: "entertainment"},
		{ServiceName: "Weekly Veg Box", Price: 25, BillingCycle: "weekly", Category: "shopping"},
		{ServiceName: "GymPass", Price: 1200, BillingCycle: "yearly", Category: "health_fitness"},
	}

	var overviews []*models.Overview
	for _, svc := range []*Service{newJSONService(t), newSQLiteService(t)} {
		user, err := svc.CreateUser(ctx, "alice@example.com", "hash", "Alice")
		require.NoError(t, err)
		for _, req := range requests {
			_, err := svc.CreateSubscription(ctx, user.ID, req)
			require.NoError(t, err)
		}
		overview, err := svc.GetUserOverview(ctx, user.ID)
		require.NoError(t, err)
		overviews = append(overviews, overview)
	}

	assert.Equal(t, overviews[0].MonthlySpending, overviews[1].MonthlySpending)
	assert.Equal(t, overviews[0].TotalSubscriptions, overviews[1].TotalSubscriptions)
	assert.Equal(t, overviews[0].ActiveSubscriptions, overviews[1].ActiveSubscriptions)
	assert.Equal(t, overviews[0].SubscriptionCategories, overviews[1].SubscriptionCategories)
}

func TestService_SwapBackend(t *testing.T) {
	svc := newJSONService(t)
	ctx := context.Background()

	_, err := svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName: "Netflix", Price: 15.99, BillingCycle: "monthly",
	})
	require.NoError(t, err)
	assert.Equal(t, storage.BackendJSON, svc.Backend())

	err = svc.Swap(config.Storage{
		Backend:    storage.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "swapped.db"),
	})
	require.NoError(t, err)
	assert.Equal(t, storage.BackendSQLite, svc.Backend())

	// The new backend starts from its own data set.
	subs, err := svc.GetUserSubscriptions(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, subs)

	_, err = svc.CreateSubscription(ctx, "u1", models.DummySubscription{
		ServiceName: "Spotify", Price: 9.99, BillingCycle: "monthly",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Close())
}

func TestBuildOverview_Deterministic(t *testing.T) {
	user := &models.User{ID: "u1"}
	subs := []*models.Subscription{
		{ID: "s1", Status: models.StatusActive, Price: 12.5, BillingCycle: models.CycleWeekly, Category: models.CategoryGaming},
		{ID: "s2", Status: models.StatusActive, Price: 240, BillingCycle: models.CycleYearly, Category: models.CategoryGaming},
		{ID: "s3", Status: models.StatusPaused, Price: 99, BillingCycle: models.CycleMonthly, Category: models.CategoryGaming},
	}

	first := BuildOverview(user, subs)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, BuildOverview(user, subs))
	}
	// 12.5*4.33 + 240/12
	assert.Equal(t, 74.13, first.MonthlySpending)
	assert.Equal(t, models.CategoryStat{Count: 2, Spending: 74.13}, first.SubscriptionCategories["gaming"])
}

func TestOpenStore_FallsBackToJSON(t *testing.T) {
	st, err := OpenStore(config.Storage{Backend: "cassandra", DataDir: t.TempDir()}, newNoopLogger())
	require.NoError(t, err)
	_, ok := st.(*jsonstore.Store)
	assert.True(t, ok)
}

func TestService_OverviewUsesCacheUntilInvalidated(t *testing.T) {
	store, err := jsonstore.New(t.TempDir(), newNoopLogger())
	require.NoError(t, err)
	c := &memoryCache{data: map[string][]byte{}}
	svc := New(store, c, newNoopLogger())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "alice@example.com", "hash", "Alice")
	require.NoError(t, err)
	_, err = svc.CreateSubscription(ctx, user.ID, models.DummySubscription{
		ServiceName: "Netflix", Price: 15.99, BillingCycle: "monthly",
	})
	require.NoError(t, err)

	first, err := svc.GetUserOverview(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 15.99, first.MonthlySpending)

	// Second read is served from the cache.
	cached, err := svc.GetUserOverview(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.MonthlySpending, cached.MonthlySpending)
	assert.Equal(t, 1, c.misses)

	// A write invalidates and the next read recomputes.
	_, err = svc.CreateSubscription(ctx, user.ID, models.DummySubscription{
		ServiceName: "Spotify", Price: 9.99, BillingCycle: "monthly",
	})
	require.NoError(t, err)

	fresh, err := svc.GetUserOverview(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.98, fresh.MonthlySpending)
}

// memoryCache is a map-backed Cache for exercising the read-through
// path without redis.
type memoryCache struct {
	data   map[string][]byte
	misses int
}

func (m *memoryCache) Get(key string, result any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		m.misses++
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (m *memoryCache) Set(key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Invalidate(key string) error {
	delete(m.data, key)
	return nil
}
