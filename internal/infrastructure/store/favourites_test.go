package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sustainscan/backend/internal/domain"
)

func newTestStore(t *testing.T) *FavouritesStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult(code string) *domain.ScanResult {
	score := 72
	return &domain.ScanResult{
		Product: &domain.Product{
			Code: code,
			Name: "Product " + code,
		},
		Origin: &domain.OriginEstimate{
			Country:    "India",
			Confidence: domain.ConfidenceMedium,
			Method:     "gs1_prefix",
		},
		EcoScore: &score,
	}
}

func TestFavourites_PutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	original := testResult("8901030875021")
	require.NoError(t, s.Put(ctx, original))

	loaded, err := s.Get(ctx, "8901030875021")
	require.NoError(t, err)

	assert.Equal(t, original.Product.Name, loaded.Product.Name)
	assert.Equal(t, original.Origin.Country, loaded.Origin.Country)
	require.NotNil(t, loaded.EcoScore)
	assert.Equal(t, 72, *loaded.EcoScore)
}

func TestFavourites_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFavourite)
}

func TestFavourites_PutReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := testResult("123456789")
	require.NoError(t, s.Put(ctx, first))

	updated := testResult("123456789")
	updated.Product.Name = "Renamed"
	require.NoError(t, s.Put(ctx, updated))

	loaded, err := s.Get(ctx, "123456789")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", loaded.Product.Name)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFavourites_PutRejectsIncomplete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Put(ctx, nil), domain.ErrInvalidRequest)
	assert.ErrorIs(t, s.Put(ctx, &domain.ScanResult{}), domain.ErrInvalidRequest)
	assert.ErrorIs(t, s.Put(ctx, &domain.ScanResult{Product: &domain.Product{}}), domain.ErrInvalidRequest)
}

func TestFavourites_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testResult("123456789")))
	require.NoError(t, s.Delete(ctx, "123456789"))

	_, err := s.Get(ctx, "123456789")
	assert.ErrorIs(t, err, domain.ErrNotFavourite)

	assert.ErrorIs(t, s.Delete(ctx, "123456789"), domain.ErrNotFavourite)
}

func TestFavourites_IsFavourite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.IsFavourite(ctx, "123456789")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, testResult("123456789")))

	ok, err = s.IsFavourite(ctx, "123456789")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecentScans_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.AddRecentScan(ctx, testResult(fmt.Sprintf("10000000%d", i))))
	}

	scans, err := s.RecentScans(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 3)

	assert.Equal(t, "100000003", scans[0].Product.Code)
	assert.Equal(t, "100000001", scans[2].Product.Code)
}

func TestRecentScans_RescanMovesToFront(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddRecentScan(ctx, testResult("100000001")))
	require.NoError(t, s.AddRecentScan(ctx, testResult("100000002")))
	require.NoError(t, s.AddRecentScan(ctx, testResult("100000001")))

	scans, err := s.RecentScans(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 2, "rescanning must not duplicate the entry")

	assert.Equal(t, "100000001", scans[0].Product.Code)
	assert.Equal(t, "100000002", scans[1].Product.Code)
}

func TestRecentScans_KeepsOnlyNewest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 8; i++ {
		require.NoError(t, s.AddRecentScan(ctx, testResult(fmt.Sprintf("10000000%d", i))))
	}

	scans, err := s.RecentScans(ctx)
	require.NoError(t, err)
	require.Len(t, scans, recentScansKept)

	assert.Equal(t, "100000008", scans[0].Product.Code)
	assert.Equal(t, "100000004", scans[len(scans)-1].Product.Code)
}
