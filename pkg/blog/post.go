package blog

import (
	"context"
	"time"
)

// Comment belongs to exactly one Post; its id is unique only within that
// post. Field names follow the API wire format.
type Comment struct {
	ID      string    `json:"_id"`
	Body    string    `json:"comment"`
	Created time.Time `json:"createdAt"`
}

// Post is the aggregate the server returns as one unit: the post itself plus
// its comments in server order.
type Post struct {
	ID       string    `json:"_id"`
	Title    string    `json:"title"`
	Body     string    `json:"blog"`
	Created  time.Time `json:"createdAt"`
	Comments []Comment `json:"comments"`
}

// Remote is the REST surface the post service talks to.
type Remote interface {
	AllPosts(ctx context.Context) ([]*Post, error)
	PostByID(ctx context.Context, postID string) (*Post, error)
	AddPost(ctx context.Context, title, body string) (*Post, error)
	DeletePost(ctx context.Context, postID string) error
	AddComment(ctx context.Context, postID, comment string) (*Post, error)
	DeleteComment(ctx context.Context, postID, commentID string) (*Post, error)
}
