package authoring

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu           sync.Mutex
	catCalls     int
	subCalls     int
	categories   []Category
	subsByParent map[string][]Category
	fail         bool
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catCalls++
	if f.fail {
		return nil, errors.New("upstream down")
	}
	return f.categories, nil
}

func (f *fakeCatalog) Subcategories(ctx context.Context, categoryID string) ([]Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subCalls++
	if f.fail {
		return nil, errors.New("upstream down")
	}
	return f.subsByParent[categoryID], nil
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: []Category{
			{ID: "c1", Name: "Math", Status: "Active"},
			{ID: "c2", Name: "Retired", Status: "Inactive"},
			{ID: "c3", Name: "Science", Status: "Active"},
		},
		subsByParent: map[string][]Category{
			"c1": {
				{ID: "s1", Name: "Algebra", Status: "Active"},
				{ID: "s2", Name: "Old Algebra", Status: "Inactive"},
			},
			"c3": {
				{ID: "s3", Name: "Physics", Status: "Active"},
			},
		},
	}
}

func TestCategoriesFetchedOnceAndFiltered(t *testing.T) {
	src := newFakeCatalog()
	lc := NewLookupCache(src)

	cats, err := lc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "c1", cats[0].ID)
	assert.Equal(t, "c3", cats[1].ID)

	_, err = lc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.catCalls) // cached, not re-fetched
}

func TestManualRefreshCategories(t *testing.T) {
	src := newFakeCatalog()
	lc := NewLookupCache(src)

	_, err := lc.Categories(context.Background())
	require.NoError(t, err)
	_, err = lc.RefreshCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.catCalls)
}

func TestSubcategoriesFollowCategorySelection(t *testing.T) {
	src := newFakeCatalog()
	lc := NewLookupCache(src)

	require.NoError(t, lc.SelectCategory(context.Background(), "c1"))
	subs, err := lc.Subcategories(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "s1", subs[0].ID)

	// re-selecting the same category does not re-fetch
	require.NoError(t, lc.SelectCategory(context.Background(), "c1"))
	assert.Equal(t, 1, src.subCalls)

	require.NoError(t, lc.SelectCategory(context.Background(), "c3"))
	subs, err = lc.Subcategories(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "s3", subs[0].ID)
	assert.Equal(t, 2, src.subCalls)
}

func TestSubcategorySelectionInvalidatedOnCategoryChange(t *testing.T) {
	src := newFakeCatalog()
	lc := NewLookupCache(src)

	require.NoError(t, lc.SelectCategory(context.Background(), "c1"))
	require.True(t, lc.SelectSubcategory("s1"))
	_, sub := lc.Selection()
	assert.Equal(t, "s1", sub)

	// s1 does not belong to c3: the selection is dropped
	require.NoError(t, lc.SelectCategory(context.Background(), "c3"))
	cat, sub := lc.Selection()
	assert.Equal(t, "c3", cat)
	assert.Empty(t, sub)

	assert.False(t, lc.SelectSubcategory("s1"))
	assert.True(t, lc.SelectSubcategory("s3"))
}

func TestSelectEmptyCategoryClearsSubcategories(t *testing.T) {
	src := newFakeCatalog()
	lc := NewLookupCache(src)

	require.NoError(t, lc.SelectCategory(context.Background(), "c1"))
	require.True(t, lc.SelectSubcategory("s1"))

	require.NoError(t, lc.SelectCategory(context.Background(), ""))
	subs, err := lc.Subcategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
	_, sub := lc.Selection()
	assert.Empty(t, sub)
}

func TestLookupCacheSurfacesErrors(t *testing.T) {
	src := newFakeCatalog()
	src.fail = true
	lc := NewLookupCache(src)

	_, err := lc.Categories(context.Background())
	assert.Error(t, err)

	src.fail = false
	cats, err := lc.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}
