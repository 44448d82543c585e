// Package apitest is an in-memory stand-in for the blog REST API, used as
// the server side in client tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"blogclient/pkg/blog"
	"blogclient/pkg/user"
)

type account struct {
	id       string
	password string
	admin    bool
}

// Server holds users, issued tokens, and post aggregates behind one mutex.
type Server struct {
	mu     sync.Mutex
	seq    int
	users  map[string]*account // keyed by identifier
	tokens map[string]*account
	posts  map[string]*blog.Post
	order  []string
	fail   map[string]int // op name -> status for the next call
}

func NewServer() *Server {
	return &Server{
		users:  make(map[string]*account),
		tokens: make(map[string]*account),
		posts:  make(map[string]*blog.Post),
		fail:   make(map[string]int),
	}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	/* auth routers */
	r.HandleFunc("/users/register", s.register).Methods("POST")
	r.HandleFunc("/users/login", s.login).Methods("POST")
	r.HandleFunc("/users/details", s.details).Methods("GET")

	/* posts routers; literal paths registered before {post_id} */
	r.HandleFunc("/posts/allPosts", s.allPosts).Methods("GET")
	r.HandleFunc("/posts/addPost", s.addPost).Methods("POST")
	r.HandleFunc("/posts/{post_id}", s.getPost).Methods("GET")
	r.HandleFunc("/posts/{post_id}", s.deletePost).Methods("DELETE")
	r.HandleFunc("/posts/{post_id}/comments", s.addComment).Methods("POST")
	r.HandleFunc("/posts/{post_id}/comments/{comment_id}", s.deleteComment).Methods("DELETE")

	return r
}

// AddUser seeds an account and returns its user id.
func (s *Server) AddUser(identifier, password string, admin bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &account{id: s.newID("u"), password: password, admin: admin}
	s.users[identifier] = a
	return a.id
}

// TokenFor mints a token for a seeded account without going through login.
func (s *Server) TokenFor(identifier string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[identifier]
	if !ok {
		return ""
	}
	token := s.newID("t")
	s.tokens[token] = a
	return token
}

// SeedPost inserts a post directly into the store.
func (s *Server) SeedPost(title, body string) *blog.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &blog.Post{
		ID:       s.newID("p"),
		Title:    title,
		Body:     body,
		Created:  time.Now().UTC(),
		Comments: []blog.Comment{},
	}
	s.posts[p.ID] = p
	s.order = append(s.order, p.ID)
	return p
}

// FailNext makes the next call to the named operation answer with the given
// status. Operation names: register, login, details, allPosts, getPost,
// addPost, deletePost, addComment, deleteComment.
func (s *Server) FailNext(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = status
}

func (s *Server) newID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func (s *Server) failed(w http.ResponseWriter, op string) bool {
	status, ok := s.fail[op]
	if !ok {
		return false
	}
	delete(s.fail, op)
	writeError(w, status, "injected failure")
	return true
}

func (s *Server) authed(r *http.Request) (*account, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil, false
	}
	a, ok := s.tokens[strings.TrimPrefix(auth, "Bearer ")]
	return a, ok
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed(w, "register") {
		return
	}

	var form user.RegisterForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if form.UserName == "" || form.Password == "" {
		writeError(w, http.StatusBadRequest, "userName and password are required")
		return
	}
	if _, exists := s.users[form.UserName]; exists {
		writeError(w, http.StatusConflict, "user already exists")
		return
	}

	s.users[form.UserName] = &account{id: s.newID("u"), password: form.Password}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registered successfully"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed(w, "login") {
		return
	}

	var creds struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	a, ok := s.users[creds.Identifier]
	if !ok || a.password != creds.Password {
		writeError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	token := s.newID("t")
	s.tokens[token] = a
	writeJSON(w, http.StatusOK, map[string]string{"access": token})
}

func (s *Server) details(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed(w, "details") {
		return
	}

	a, ok := s.authed(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	role := "user"
	if a.admin {
		role = "admin"
	}
	writeJSON(w, http.StatusOK, user.Profile{ID: a.id, IsAdmin: a.admin, Role: role})
}

func (s *Server) allPosts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed(w, "allPosts") {
		return
	}

	posts := make([]*blog.Post, 0, len(s.order))
	for _, id := range s.order {
		posts = append(posts, s.posts[id])
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed(w, "getPost") {
		return
	}

	p, ok := s.posts[mux.Vars(r)["post_id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) addPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed(w, "addPost") {
		return
	}

	if _, ok := s.authed(r); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Title string `json:"title"`
		Blog  string `json:"blog"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Title == "" || req.Blog == "" {
		writeError(w, http.StatusBadRequest, "title and blog are required")
		return
	}

	p := &blog.Post{
		ID:       s.newID("p"),
		Title:    req.Title,
		Body:     req.Blog,
		Created:  time.Now().UTC(),
		Comments: []blog.Comment{},
	}
	s.posts[p.ID] = p
	s.order = append(s.order, p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed(w, "deletePost") {
		return
	}

	a, ok := s.authed(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !a.admin {
		writeError(w, http.StatusForbidden, "Admin access required")
		return
	}

	postID := mux.Vars(r)["post_id"]
	if _, ok := s.posts[postID]; !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	delete(s.posts, postID)
	for i, id := range s.order {
		if id == postID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed(w, "addComment") {
		return
	}

	if _, ok := s.authed(r); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, ok := s.posts[mux.Vars(r)["post_id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Comment == "" {
		writeError(w, http.StatusBadRequest, "comment is required")
		return
	}

	p.Comments = append(p.Comments, blog.Comment{
		ID:      s.newID("c"),
		Body:    req.Comment,
		Created: time.Now().UTC(),
	})
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed(w, "deleteComment") {
		return
	}

	a, ok := s.authed(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !a.admin {
		writeError(w, http.StatusForbidden, "Admin access required")
		return
	}

	vars := mux.Vars(r)
	p, ok := s.posts[vars["post_id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	commentID := vars["comment_id"]
	found := false
	kept := p.Comments[:0]
	for _, c := range p.Comments {
		if c.ID == commentID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}

	p.Comments = kept
	writeJSON(w, http.StatusOK, p)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
