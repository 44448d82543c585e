// Package cli is the terminal front end: it renders repository and session
// state and dispatches user intents to the gateway and the post service.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"blogclient/pkg/blog"
	"blogclient/pkg/session"
	"blogclient/pkg/user"
)

const previewLimit = 400

type App struct {
	Sessions *session.Store
	Auth     *user.Gateway
	Posts    *blog.Service
	Repo     *blog.Repository
	Logger   *slog.Logger

	In  io.Reader
	Out io.Writer
}

func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.Out, "blog client, type 'help' for commands")
	a.printWhoami()

	sc := bufio.NewScanner(a.In)
	for {
		fmt.Fprint(a.Out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := a.dispatch(ctx, sc, cmd, args); err != nil {
			a.Logger.Debug("command failed", "cmd", cmd, "error", err)
			fmt.Fprintf(a.Out, "error: %v\n", err)
		}
	}
}

func (a *App) dispatch(ctx context.Context, sc *bufio.Scanner, cmd string, args []string) error {
	switch cmd {
	case "help":
		a.printHelp()
	case "list":
		return a.list(ctx)
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("usage: show <post-id>")
		}
		return a.show(ctx, args[0])
	case "post":
		return a.create(ctx, sc)
	case "comment":
		if len(args) != 1 {
			return fmt.Errorf("usage: comment <post-id>")
		}
		return a.comment(ctx, sc, args[0])
	case "delete-post":
		if len(args) != 1 {
			return fmt.Errorf("usage: delete-post <post-id>")
		}
		return a.deletePost(ctx, sc, args[0])
	case "delete-comment":
		if len(args) != 2 {
			return fmt.Errorf("usage: delete-comment <post-id> <comment-id>")
		}
		return a.deleteComment(ctx, sc, args[0], args[1])
	case "login":
		return a.login(ctx, sc)
	case "register":
		return a.register(ctx, sc)
	case "logout":
		a.Auth.Logout()
		fmt.Fprintln(a.Out, "logged out")
	case "whoami":
		a.printWhoami()
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
	return nil
}

func (a *App) printHelp() {
	fmt.Fprint(a.Out, `commands:
  list                                reload and show all posts
  show <post-id>                      show one post with its comments
  post                                publish a new post
  comment <post-id>                   add a comment
  delete-post <post-id>               delete a post (admin)
  delete-comment <post-id> <comm-id>  remove a comment (admin)
  login | register | logout | whoami
  quit
`)
}

func (a *App) printWhoami() {
	s := a.Sessions.Snapshot()
	switch {
	case s.Token == "":
		fmt.Fprintln(a.Out, "anonymous")
	case s.IsAdmin:
		fmt.Fprintf(a.Out, "logged in as %s (admin)\n", s.UserID)
	default:
		fmt.Fprintf(a.Out, "logged in as %s\n", s.UserID)
	}
}

func (a *App) list(ctx context.Context) error {
	// Leaving the previous view: responses still in flight for it must not
	// land in the repository.
	a.Posts.Invalidate()
	if err := a.Posts.LoadAll(ctx); err != nil {
		return err
	}

	posts := a.Repo.List()
	if len(posts) == 0 {
		fmt.Fprintln(a.Out, "no posts yet")
		return nil
	}
	for _, p := range posts {
		a.renderPost(p, false)
	}
	return nil
}

func (a *App) show(ctx context.Context, postID string) error {
	a.Posts.Invalidate()
	p, err := a.Posts.LoadOne(ctx, postID)
	if err != nil {
		return err
	}
	a.renderPost(p, true)
	return nil
}

func (a *App) renderPost(p *blog.Post, full bool) {
	body := p.Body
	if !full && len([]rune(body)) > previewLimit {
		body = string([]rune(body)[:previewLimit]) + "…"
	}
	fmt.Fprintf(a.Out, "[%s] %s (%s)\n%s\n", p.ID, p.Title, p.Created.Local().Format("2006-01-02 15:04"), body)
	for _, c := range p.Comments {
		fmt.Fprintf(a.Out, "    [%s] %s\n", c.ID, c.Body)
	}
	fmt.Fprintf(a.Out, "  %d comment(s)\n", len(p.Comments))
}

func (a *App) create(ctx context.Context, sc *bufio.Scanner) error {
	title := a.prompt(sc, "title: ")
	body := a.prompt(sc, "content: ")

	p, err := a.Posts.Create(ctx, title, body)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "published %s\n", p.ID)
	return nil
}

func (a *App) comment(ctx context.Context, sc *bufio.Scanner, postID string) error {
	text := a.prompt(sc, "comment: ")

	p, err := a.Posts.AddComment(ctx, postID, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "comment added, post now has %d comment(s)\n", len(p.Comments))
	return nil
}

func (a *App) deletePost(ctx context.Context, sc *bufio.Scanner, postID string) error {
	if !a.confirm(sc, "Delete this post?") {
		return nil
	}
	if err := a.Posts.DeletePost(ctx, postID); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "post deleted")
	return nil
}

func (a *App) deleteComment(ctx context.Context, sc *bufio.Scanner, postID, commentID string) error {
	if !a.confirm(sc, "Remove this comment?") {
		return nil
	}
	if _, err := a.Posts.DeleteComment(ctx, postID, commentID); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "comment removed")
	return nil
}

func (a *App) login(ctx context.Context, sc *bufio.Scanner) error {
	identifier := a.prompt(sc, "email or username: ")
	password := a.prompt(sc, "password: ")

	if err := a.Auth.Login(ctx, identifier, password); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "successful login")
	a.printWhoami()
	return nil
}

func (a *App) register(ctx context.Context, sc *bufio.Scanner) error {
	form := user.RegisterForm{
		FirstName: a.prompt(sc, "first name: "),
		LastName:  a.prompt(sc, "last name: "),
		Email:     a.prompt(sc, "email: "),
		UserName:  a.prompt(sc, "username: "),
		MobileNo:  a.prompt(sc, "mobile number: "),
		Password:  a.prompt(sc, "password: "),
	}
	if confirm := a.prompt(sc, "confirm password: "); confirm != form.Password {
		return fmt.Errorf("passwords do not match")
	}

	if err := a.Auth.Register(ctx, form); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "registration successful, you can now log in")
	return nil
}

func (a *App) prompt(sc *bufio.Scanner, label string) string {
	fmt.Fprint(a.Out, label)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}

func (a *App) confirm(sc *bufio.Scanner, question string) bool {
	answer := a.prompt(sc, question+" [y/N] ")
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}
