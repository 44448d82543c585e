package blog

import "sync"

// Repository is the in-memory collection of post aggregates, the only place
// server responses are merged into client state. It holds at most one post
// per id and keeps the server's list order.
type Repository struct {
	mu    sync.RWMutex
	byID  map[string]*Post
	order []string
}

func NewRepository() *Repository {
	return &Repository{byID: make(map[string]*Post)}
}

// ReplaceAll throws away the whole collection in favour of the server's
// current list.
func (r *Repository) ReplaceAll(posts []*Post) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[string]*Post, len(posts))
	r.order = r.order[:0]
	for _, p := range posts {
		if _, seen := r.byID[p.ID]; seen {
			continue
		}
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
}

// Upsert replaces the stored post wholesale. The server assigns comment ids
// and timestamps, so no field from the previous value is carried over. A
// known id keeps its position in the list; an unknown id is appended.
func (r *Repository) Upsert(p *Post) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, known := r.byID[p.ID]; !known {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
}

// Remove drops the post with that id; every other post is untouched.
func (r *Repository) Remove(postID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, known := r.byID[postID]; !known {
		return
	}
	delete(r.byID, postID)
	for i, id := range r.order {
		if id == postID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Repository) Get(postID string) (*Post, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[postID]
	return p, ok
}

// List returns the posts in collection order.
func (r *Repository) List() []*Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]*Post, 0, len(r.order))
	for _, id := range r.order {
		posts = append(posts, r.byID[id])
	}
	return posts
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
