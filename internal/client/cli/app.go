// Package cli is a small interactive client for the gallery server. It keeps
// one session per run: log in once, then upload, list, search, and delete
// posts until exit.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkalnins/gallery/internal/client/api"
	"github.com/pkalnins/gallery/internal/client/state"
)

type App struct {
	store *state.Store
	in    *bufio.Reader
	out   io.Writer
}

func NewApp(serverAddr string) (*App, error) {
	client, err := api.New(serverAddr)
	if err != nil {
		return nil, err
	}
	return &App{
		store: state.New(client),
		in:    bufio.NewReader(os.Stdin),
		out:   os.Stdout,
	}, nil
}

// Run reads commands until "exit" or EOF.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "commands: register, login, logout, list, upload, search, delete, exit")

	for {
		line, err := getSimpleText(a.in, "", a.out)
		if err != nil {
			return nil // EOF ends the session
		}

		cmd, arg, _ := strings.Cut(line, " ")

		switch cmd {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "register":
			err = a.register(ctx)
		case "login":
			err = a.login(ctx)
		case "logout":
			err = a.store.Logout(ctx)
		case "list":
			err = a.list(ctx)
		case "upload":
			err = a.upload(ctx, strings.TrimSpace(arg))
		case "search":
			err = a.search(ctx, strings.TrimSpace(arg))
		case "delete":
			err = a.store.DeletePost(ctx, strings.TrimSpace(arg))
		default:
			fmt.Fprintf(a.out, "unknown command %q\n", cmd)
			continue
		}

		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}

func (a *App) register(ctx context.Context) error {
	name, err := getSimpleText(a.in, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.store.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "registered %s (%s)\n", user.Name, user.Email)
	return nil
}

func (a *App) login(ctx context.Context) error {
	email, err := getSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.store.Login(ctx, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "logged in")
	return nil
}

func (a *App) list(ctx context.Context) error {
	if err := a.store.Refresh(ctx); err != nil {
		return err
	}

	user, posts, ok := a.store.CurrentUser()
	if !ok {
		return fmt.Errorf("not logged in")
	}

	fmt.Fprintf(a.out, "%s: %d post(s)\n", user.Name, len(posts))
	printPosts(a.out, posts)
	return nil
}

func (a *App) upload(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("usage: upload <file>")
	}

	caption, err := getSimpleText(a.in, "Enter caption (may be empty)", a.out)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := a.store.CreatePost(ctx, caption, filepath.Base(path), f); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "post created")
	return nil
}

func (a *App) search(ctx context.Context, title string) error {
	posts, err := a.store.SearchPosts(ctx, title)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%d match(es)\n", len(posts))
	printPosts(a.out, posts)
	return nil
}

func printPosts(w io.Writer, posts []api.Post) {
	for _, p := range posts {
		caption := p.Caption
		if caption == "" {
			caption = "(no caption)"
		}
		fmt.Fprintf(w, "  %s  %s  %s\n", p.ID, caption, p.Image.URL)
	}
}
