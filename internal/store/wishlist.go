package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// Wishlist actions accepted by Update.
const (
	WishlistAdd    = "add"
	WishlistRemove = "remove"
)

// Wishlist stores per-user track shortlists as a JSON file keyed by
// username. Updates are serialized; concurrent adds from two sessions both
// land.
type Wishlist struct {
	path string
	mu   sync.Mutex
}

// NewWishlist creates a wishlist store at path.
func NewWishlist(path string) *Wishlist {
	return &Wishlist{path: path}
}

// Get returns the user's track IDs. Unknown users and a missing file both
// yield an empty list.
func (w *Wishlist) Get(user string) ([]int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	lists, err := w.load()
	if err != nil {
		return nil, err
	}
	ids := lists[user]
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

// Update adds or removes a track ID for the user and returns the updated
// list. Adding a present ID and removing an absent one are no-ops.
func (w *Wishlist) Update(user string, trackID int, action string) ([]int, error) {
	if action != WishlistAdd && action != WishlistRemove {
		return nil, fmt.Errorf("unknown wishlist action %q", action)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	lists, err := w.load()
	if err != nil {
		return nil, err
	}

	ids := lists[user]
	switch action {
	case WishlistAdd:
		if !containsInt(ids, trackID) {
			ids = append(ids, trackID)
		}
	case WishlistRemove:
		ids = removeInt(ids, trackID)
	}
	if ids == nil {
		ids = []int{}
	}
	lists[user] = ids

	if err := w.save(lists); err != nil {
		return nil, err
	}
	return ids, nil
}

func (w *Wishlist) load() (map[string][]int, error) {
	data, err := os.ReadFile(w.path)
	if os.IsNotExist(err) {
		return map[string][]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read wishlist: %w", err)
	}
	lists := map[string][]int{}
	if len(data) == 0 {
		return lists, nil
	}
	if err := json.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}
	return lists, nil
}

func (w *Wishlist) save(lists map[string][]int) error {
	return writeFileAtomic(w.path, func(out io.Writer) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(lists)
	})
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
