package adapters

import (
	"context"

	"github.com/VoxDroid/cmdpal/internal/favorites"
)

// favoritesAdapter implements FavoritesAdapter over a favorites.Store.
type favoritesAdapter struct{ store *favorites.Store }

// NewFavoritesAdapter constructs a FavoritesAdapter backed by store.
func NewFavoritesAdapter(store *favorites.Store) FavoritesAdapter {
	return &favoritesAdapter{store: store}
}

func (f *favoritesAdapter) Set(_ context.Context) (map[string]bool, error) { return f.store.Set() }

func (f *favoritesAdapter) Toggle(_ context.Context, group, name string) (bool, error) {
	return f.store.Toggle(group, name)
}
