// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prdgate/internal/derive"
	"github.com/pdiddy/prdgate/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.StoreConfig{Dir: t.TempDir(), MaxResults: 2})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testDoc(raw string) *types.PRDDocument {
	return &types.PRDDocument{
		Title:   "Checkout",
		Version: "1.2",
		Path:    "/repo/PRD.md",
		FunctionalRequirements: []types.Requirement{
			{ID: "FR-001", Name: "支付", Description: "- [ ] 退款", Section: "功能需求", AcceptanceCriteria: []string{"退款"}, Priority: "P0"},
			{ID: "FR-002", Name: "对账", Description: "", Section: "功能需求", AcceptanceCriteria: []string{}, Priority: "P1"},
		},
		QualityRequirements: []types.QualityStandard{
			{Category: types.CategoryPerformance, Name: types.StandardResponseTime, Requirement: "响应时间 < 2秒", Threshold: "2", Metric: types.MetricMilliseconds, Unit: "秒"},
		},
		RawContent: raw,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	doc := testDoc("v1")
	th := derive.QualityStandards(doc)

	snap, err := store.Save(ctx, doc, th)
	require.NoError(t, err)
	assert.False(t, snap.Unchanged)
	_, err = uuid.Parse(snap.ID)
	assert.NoError(t, err)
	assert.Equal(t, ContentHash(doc), snap.ContentHash)
	assert.Equal(t, 2, snap.Requirements)
	assert.Equal(t, 1, snap.Standards)

	got, err := store.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, "Checkout", got.Title)
	assert.Equal(t, 2000, got.Thresholds.Performance.ResponseTimeMS)
	assert.True(t, snap.CreatedAt.Equal(got.CreatedAt))

	reqs, err := store.Requirements(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.FunctionalRequirements, reqs)

	stds, err := store.Standards(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.QualityRequirements, stds)
}

func TestSaveUnchangedContentIsSkipped(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	doc := testDoc("same")

	first, err := store.Save(ctx, doc, derive.QualityStandards(doc))
	require.NoError(t, err)
	second, err := store.Save(ctx, doc, derive.QualityStandards(doc))
	require.NoError(t, err)

	assert.True(t, second.Unchanged)
	assert.Equal(t, first.ID, second.ID)

	all, err := store.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListNewestFirstWithDefaultLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var ids []string
	for _, raw := range []string{"a", "b", "c"} {
		doc := testDoc(raw)
		snap, err := store.Save(ctx, doc, derive.QualityStandards(doc))
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}

	list, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[1], list[1].ID)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, ids[2], latest.ID)
}

func TestLatestEmptyStore(t *testing.T) {
	latest, err := testStore(t).Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestGetMissing(t *testing.T) {
	_, err := testStore(t).Get(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
