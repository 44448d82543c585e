package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"blogclient/internal/apitest"
	"blogclient/pkg/api"
	"blogclient/pkg/user"
)

type tokenSource struct {
	token string
}

func (t *tokenSource) Token() string { return t.token }

func newClient(t *testing.T) (*api.Client, *apitest.Server, *tokenSource) {
	t.Helper()
	backend := apitest.NewServer()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	source := &tokenSource{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.NewClient(srv.URL, source, logger), backend, source
}

func TestRegisterLoginDetailsFlow(t *testing.T) {
	client, _, _ := newClient(t)
	ctx := context.Background()

	err := client.Register(ctx, user.RegisterForm{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		UserName: "ada", MobileNo: "5551234", Password: "longenough",
	})
	assert.NoError(t, err)

	token, err := client.Login(ctx, "ada", "longenough")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	prof, err := client.Details(ctx, token)
	assert.NoError(t, err)
	assert.NotEmpty(t, prof.ID)
	assert.False(t, prof.Admin())
}

func TestLoginRejected(t *testing.T) {
	client, backend, _ := newClient(t)
	backend.AddUser("ada", "pw", false)

	_, err := client.Login(context.Background(), "ada", "wrong")

	var authErr *api.AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, 401, authErr.StatusCode())
	assert.Equal(t, "Incorrect email or password", authErr.Message)
}

func TestDetailsAdminProfile(t *testing.T) {
	client, backend, _ := newClient(t)
	backend.AddUser("root", "pw", true)
	token := backend.TokenFor("root")

	prof, err := client.Details(context.Background(), token)

	assert.NoError(t, err)
	assert.True(t, prof.Admin())
}

func TestAllPostsAndGetOne(t *testing.T) {
	client, backend, _ := newClient(t)
	seeded := backend.SeedPost("Hello", "first post")
	backend.SeedPost("Second", "another")

	posts, err := client.AllPosts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "Hello", posts[0].Title)

	p, err := client.PostByID(context.Background(), seeded.ID)
	assert.NoError(t, err)
	assert.Equal(t, seeded.ID, p.ID)
	assert.NotNil(t, p.Comments)
}

func TestGetMissingPost(t *testing.T) {
	client, _, _ := newClient(t)

	_, err := client.PostByID(context.Background(), "nope")

	var valErr *api.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, 404, valErr.StatusCode())
	assert.Equal(t, "Post not found", valErr.Message)
}

func TestAddPostRequiresBearer(t *testing.T) {
	client, _, _ := newClient(t)

	_, err := client.AddPost(context.Background(), "Title", "body")

	var authErr *api.AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestAddPostAndComment(t *testing.T) {
	client, backend, source := newClient(t)
	backend.AddUser("ada", "pw", false)
	source.token = backend.TokenFor("ada")

	p, err := client.AddPost(context.Background(), "Title", "body")
	assert.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Empty(t, p.Comments)

	updated, err := client.AddComment(context.Background(), p.ID, "nice")
	assert.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Len(t, updated.Comments, 1)
	assert.Equal(t, "nice", updated.Comments[0].Body)
	assert.NotEmpty(t, updated.Comments[0].ID)
}

func TestDeleteCommentAdminEnforced(t *testing.T) {
	client, backend, source := newClient(t)
	backend.AddUser("ada", "pw", false)
	backend.AddUser("root", "pw", true)
	p := backend.SeedPost("Hello", "text")

	source.token = backend.TokenFor("ada")
	updated, err := client.AddComment(context.Background(), p.ID, "spam")
	assert.NoError(t, err)
	commentID := updated.Comments[0].ID

	// non-admin gets 403
	_, err = client.DeleteComment(context.Background(), p.ID, commentID)
	var forbidden *api.AuthorizationError
	assert.ErrorAs(t, err, &forbidden)

	// admin succeeds and receives the updated aggregate
	source.token = backend.TokenFor("root")
	after, err := client.DeleteComment(context.Background(), p.ID, commentID)
	assert.NoError(t, err)
	assert.Empty(t, after.Comments)
}

func TestDeletePost(t *testing.T) {
	client, backend, source := newClient(t)
	backend.AddUser("root", "pw", true)
	source.token = backend.TokenFor("root")
	p := backend.SeedPost("Hello", "text")

	assert.NoError(t, client.DeletePost(context.Background(), p.ID))

	posts, err := client.AllPosts(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, posts)
}

func TestServerErrorMapped(t *testing.T) {
	client, backend, _ := newClient(t)
	backend.AddUser("ada", "pw", false)
	token := backend.TokenFor("ada")

	backend.FailNext("details", http.StatusInternalServerError)

	_, err := client.Details(context.Background(), token)

	var srvErr *api.ServerError
	assert.ErrorAs(t, err, &srvErr)
	assert.Equal(t, 500, srvErr.StatusCode())
}

func TestNonJSONErrorBodyTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.NewClient(srv.URL, &tokenSource{}, logger)

	_, err := client.AllPosts(context.Background())

	var valErr *api.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "", valErr.Message)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.NewClient(url, &tokenSource{}, logger)

	_, err := client.AllPosts(context.Background())

	var netErr *api.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestMutationsCarryRequestID(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"p1","title":"t","blog":"b","comments":[]}`))
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.NewClient(srv.URL, &tokenSource{token: "tok"}, logger)

	_, err := client.AddPost(context.Background(), "t", "b")

	assert.NoError(t, err)
	assert.NotEmpty(t, gotID)
}
