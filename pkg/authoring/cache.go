package authoring

import (
	"context"
	"sync"
)

// CatalogSource is what the lookup cache needs from the backend client.
type CatalogSource interface {
	Categories(ctx context.Context) ([]Category, error)
	Subcategories(ctx context.Context, categoryID string) ([]Category, error)
}

// LookupCache caches category reference data for the topic form. Categories
// are fetched once and filtered to active entries; subcategories are fetched
// per selected category and the subcategory selection is reset whenever it no
// longer belongs to the newly selected category's result set.
type LookupCache struct {
	source CatalogSource

	mu            sync.Mutex
	categories    []Category
	catLoaded     bool
	selectedCat   string
	selectedSub   string
	subcategories []Category
	subLoaded     bool
}

func NewLookupCache(source CatalogSource) *LookupCache {
	return &LookupCache{source: source}
}

// Categories returns the active category list, fetching it on first use.
func (lc *LookupCache) Categories(ctx context.Context) ([]Category, error) {
	lc.mu.Lock()
	if lc.catLoaded {
		out := lc.categories
		lc.mu.Unlock()
		return out, nil
	}
	lc.mu.Unlock()
	return lc.RefreshCategories(ctx)
}

// RefreshCategories forces a re-fetch of the category list only; the
// subcategory cache is left alone.
func (lc *LookupCache) RefreshCategories(ctx context.Context) ([]Category, error) {
	all, err := lc.source.Categories(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]Category, 0, len(all))
	for _, c := range all {
		if c.Status == categoryStatusActive {
			active = append(active, c)
		}
	}
	lc.mu.Lock()
	lc.categories = active
	lc.catLoaded = true
	lc.mu.Unlock()
	return active, nil
}

// SelectCategory switches the parent category. On a change, the subcategory
// list is re-fetched and the previous subcategory selection is dropped when
// it does not appear in the new result set.
func (lc *LookupCache) SelectCategory(ctx context.Context, categoryID string) error {
	lc.mu.Lock()
	if lc.selectedCat == categoryID && lc.subLoaded {
		lc.mu.Unlock()
		return nil
	}
	lc.selectedCat = categoryID
	lc.subLoaded = false
	lc.mu.Unlock()

	_, err := lc.RefreshSubcategories(ctx)
	return err
}

// RefreshSubcategories re-fetches the subcategory list for the current
// category selection.
func (lc *LookupCache) RefreshSubcategories(ctx context.Context) ([]Category, error) {
	lc.mu.Lock()
	cat := lc.selectedCat
	lc.mu.Unlock()
	if cat == "" {
		lc.mu.Lock()
		lc.subcategories = nil
		lc.subLoaded = true
		lc.selectedSub = ""
		lc.mu.Unlock()
		return nil, nil
	}

	all, err := lc.source.Subcategories(ctx, cat)
	if err != nil {
		return nil, err
	}
	active := make([]Category, 0, len(all))
	for _, c := range all {
		if c.Status == categoryStatusActive {
			active = append(active, c)
		}
	}

	lc.mu.Lock()
	lc.subcategories = active
	lc.subLoaded = true
	if lc.selectedSub != "" && !containsCategory(active, lc.selectedSub) {
		lc.selectedSub = ""
	}
	lc.mu.Unlock()
	return active, nil
}

// Subcategories returns the cached list for the selected category.
func (lc *LookupCache) Subcategories(ctx context.Context) ([]Category, error) {
	lc.mu.Lock()
	if lc.subLoaded {
		out := lc.subcategories
		lc.mu.Unlock()
		return out, nil
	}
	lc.mu.Unlock()
	return lc.RefreshSubcategories(ctx)
}

// SelectSubcategory records a subcategory choice; it must belong to the
// currently loaded list.
func (lc *LookupCache) SelectSubcategory(id string) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if id == "" {
		lc.selectedSub = ""
		return true
	}
	if !containsCategory(lc.subcategories, id) {
		return false
	}
	lc.selectedSub = id
	return true
}

// Selection returns the current (category, subcategory) ids.
func (lc *LookupCache) Selection() (string, string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.selectedCat, lc.selectedSub
}

func containsCategory(list []Category, id string) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}
