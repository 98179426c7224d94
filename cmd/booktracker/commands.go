package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"booktracker/internal/book"
	"booktracker/internal/client"
	"booktracker/internal/tracker"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultAPIURL = "http://localhost:5040"

// formFlags maps command line flags to tracker form fields, in the order
// they are applied.
var formFlags = []struct {
	flag  string
	field string
}{
	{"title", "title"},
	{"author", "author"},
	{"genre", "genre"},
	{"pages", "pages"},
	{"status", "status"},
	{"current-page", "currentPage"},
	{"rating", "rating"},
}

type app struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	apiURL      string
	timeout     time.Duration
	api         *client.Client
	tracker     *tracker.Tracker
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: isTerminal(in),
	}

	root := &cobra.Command{
		Use:          "booktracker",
		Short:        "Manage your personal book collection",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.api = client.NewClient(a.apiURL, a.timeout)
			a.tracker = tracker.New(a.api)
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	apiURL := os.Getenv("BOOKTRACKER_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", apiURL, "Book API base URL (env BOOKTRACKER_API_URL)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "HTTP request timeout")

	root.AddCommand(
		a.listCmd(),
		a.viewCmd(),
		a.addCmd(),
		a.editCmd(),
		a.deleteCmd(),
	)
	return root
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tracker.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("listing books: %w", err)
			}
			return renderList(a.out, a.tracker.Books())
		},
	}
}

func (a *app) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show the details of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.tracker.OpenView(b)
			defer a.tracker.CloseView()
			return renderBook(a.out, a.tracker.Working())
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.tracker.OpenCreate()
			return a.submitForm(cmd)
		},
	}
	addFormFlags(cmd)
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a book; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.tracker.OpenEdit(cmd.Context(), id); err != nil {
				a.printNotification()
				return fmt.Errorf("loading book %d: %w", id, err)
			}
			return a.submitForm(cmd)
		},
	}
	addFormFlags(cmd)
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a book from the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.tracker.RequestDelete(b)

			if !yes {
				if !a.interactive {
					a.tracker.CancelDelete()
					return errors.New("refusing to delete without confirmation; pass --yes")
				}
				ok, err := confirm(a.in, a.out, fmt.Sprintf("Remover o livro %s? [s/N] ", b.Title))
				if err != nil || !ok {
					a.tracker.CancelDelete()
					return err
				}
			}

			err = a.tracker.ConfirmDelete(cmd.Context())
			a.printNotification()
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func addFormFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("title", "", "Book title")
	f.String("author", "", "Author")
	f.String("genre", "", "Genre")
	f.Int("pages", 0, "Total pages")
	f.Int("current-page", 0, "Current page")
	f.String("status", "", `Status: 0|1|2 or "Para ler", "Lendo", "Finalizado"`)
	f.Int("rating", 0, "Rating from 0 to 5 stars")
}

// submitForm copies the flags the user set into the open form and submits it.
func (a *app) submitForm(cmd *cobra.Command) error {
	for _, ff := range formFlags {
		if !cmd.Flags().Changed(ff.flag) {
			continue
		}
		value := cmd.Flags().Lookup(ff.flag).Value.String()
		if err := a.tracker.SetField(ff.field, value); err != nil {
			a.tracker.Cancel()
			return fmt.Errorf("--%s: %w", ff.flag, err)
		}
	}

	err := a.tracker.Submit(cmd.Context())
	var verr *book.ValidationError
	if errors.As(err, &verr) {
		renderFieldErrors(a.out, a.tracker.FieldErrors())
		a.tracker.Cancel()
		return errors.New("book is invalid")
	}
	a.printNotification()
	return err
}

func (a *app) fetch(ctx context.Context, arg string) (book.Book, error) {
	id, err := parseID(arg)
	if err != nil {
		return book.Book{}, err
	}
	b, err := a.api.GetBook(ctx, id)
	if err != nil {
		return book.Book{}, fmt.Errorf("loading book %d: %w", id, err)
	}
	return b, nil
}

func (a *app) printNotification() {
	n, ok := a.tracker.Notification()
	if !ok {
		return
	}
	fmt.Fprintln(a.out, n.Title)
	fmt.Fprintln(a.out, n.Description)
	a.tracker.DismissNotification()
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", arg)
	}
	return id, nil
}

// confirm reads one answer line; only yes answers confirm.
func confirm(in *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true, nil
	}
	return false, nil
}
