// Package tracker holds the client-side state of the book tracker: the
// loaded collection, the book being edited, its field errors and the last
// notification shown to the user.
//
// A Tracker is driven by one user at a time and is not safe for concurrent use.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"booktracker/internal/book"
)

// API is the subset of the REST client the tracker needs.
type API interface {
	ListBooks(ctx context.Context) ([]book.Book, error)
	GetBook(ctx context.Context, id int64) (book.Book, error)
	CreateBook(ctx context.Context, b book.Book) (book.Book, error)
	UpdateBook(ctx context.Context, b book.Book) error
	DeleteBook(ctx context.Context, id int64) error
}

var (
	ErrNotEditing   = errors.New("no book is being edited")
	ErrNoDeletion   = errors.New("no book is pending deletion")
	ErrUnknownField = errors.New("unknown field")
)

type State int

const (
	StateIdle State = iota
	StateEditing
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	}
	return "unknown"
}

type Dialog int

const (
	DialogNone Dialog = iota
	DialogForm
	DialogView
	DialogDelete
)

type NotificationKind int

const (
	Success NotificationKind = iota
	Failure
)

type Notification struct {
	Kind        NotificationKind
	Title       string
	Description string
}

type Tracker struct {
	api          API
	books        []book.Book
	working      book.Book
	fieldErrors  map[string][]string
	state        State
	dialog       Dialog
	notification *Notification
}

func New(api API) *Tracker {
	return &Tracker{
		api:     api,
		working: book.New(),
	}
}

func (t *Tracker) State() State   { return t.state }
func (t *Tracker) Dialog() Dialog { return t.dialog }

// Books returns the collection as of the last refresh.
func (t *Tracker) Books() []book.Book {
	out := make([]book.Book, len(t.books))
	copy(out, t.books)
	return out
}

// Working returns a copy of the book in the open dialog.
func (t *Tracker) Working() book.Book {
	b := t.working
	if b.Rating != nil {
		b.Rating = book.IntPtr(*b.Rating)
	}
	return b
}

// FieldErrors returns the messages of the last failed validation, by field.
func (t *Tracker) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(t.fieldErrors))
	for k, v := range t.fieldErrors {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Notification returns the pending notification, if any.
func (t *Tracker) Notification() (Notification, bool) {
	if t.notification == nil {
		return Notification{}, false
	}
	return *t.notification, true
}

func (t *Tracker) DismissNotification() {
	t.notification = nil
}

// FormTitle is the heading of the create/edit dialog.
func (t *Tracker) FormTitle() string {
	if t.working.ID != 0 {
		return "Editar Livro"
	}
	return "Adicionar Livro"
}

// Refresh reloads the collection from the store.
func (t *Tracker) Refresh(ctx context.Context) error {
	books, err := t.api.ListBooks(ctx)
	if err != nil {
		return err
	}
	t.books = books
	return nil
}

// OpenCreate opens the form with a blank book.
func (t *Tracker) OpenCreate() {
	t.working = book.New()
	t.fieldErrors = nil
	t.dialog = DialogForm
	t.state = StateEditing
}

// OpenEdit loads the book from the store and opens the form with it.
func (t *Tracker) OpenEdit(ctx context.Context, id int64) error {
	b, err := t.api.GetBook(ctx, id)
	if err != nil {
		t.notify(Failure, "Erro ao carregar livro!",
			"Não foi possível carregar o livro selecionado.")
		return err
	}
	t.working = b
	t.fieldErrors = nil
	t.dialog = DialogForm
	t.state = StateEditing
	return nil
}

// Cancel closes the form without submitting.
func (t *Tracker) Cancel() {
	if t.dialog == DialogForm {
		t.closeDialog()
	}
}

// SetField applies a raw form input to the working book. Numeric fields are
// parsed; status changes move the current page as the book rules require.
func (t *Tracker) SetField(name, value string) error {
	if t.state != StateEditing {
		return ErrNotEditing
	}

	switch name {
	case "title":
		t.working.Title = value
	case "author":
		t.working.Author = value
	case "genre":
		t.working.Genre = value
	case "pages", "currentPage", "rating":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		switch name {
		case "pages":
			t.setPages(n)
		case "currentPage":
			t.working.CurrentPage = n
		case "rating":
			t.working.Rating = book.IntPtr(n)
		}
	case "status":
		s, err := book.ParseStatus(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		t.SetStatus(s)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// SetStatus changes the reading status and snaps the current page.
func (t *Tracker) SetStatus(s book.Status) {
	if t.state != StateEditing {
		return
	}
	t.working.Status = s
	book.Normalize(&t.working)
}

// SetRating sets the star rating (clicking a star in the form).
func (t *Tracker) SetRating(stars int) {
	if t.state != StateEditing {
		return
	}
	t.working.Rating = book.IntPtr(stars)
}

func (t *Tracker) setPages(n int) {
	t.working.Pages = n
	if t.working.Status == book.StatusFinished {
		t.working.CurrentPage = n
	}
}

// Submit validates the working book as edited and, when it is valid,
// creates or updates it in the store. A validation failure keeps the form
// open with field errors and returns a *book.ValidationError without any
// request. Otherwise the form is closed and a notification records the
// outcome.
func (t *Tracker) Submit(ctx context.Context) error {
	if t.state != StateEditing {
		return ErrNotEditing
	}

	t.state = StateValidating
	if err := book.Validate(t.working); err != nil {
		var verr *book.ValidationError
		if errors.As(err, &verr) {
			t.fieldErrors = verr.Fields()
		}
		t.state = StateEditing
		return err
	}
	t.fieldErrors = nil

	t.state = StateSubmitting
	editing := t.working.ID != 0
	verb, past := "adicionar", "adicionado"
	if editing {
		verb, past = "editar", "editado"
	}

	var err error
	if editing {
		err = t.api.UpdateBook(ctx, t.working)
	} else {
		_, err = t.api.CreateBook(ctx, t.working)
	}

	if err != nil {
		t.notify(Failure, "Erro ao "+verb+" livro!",
			fmt.Sprintf("Ocorreu um erro ao %s o livro %s na sua coleção.", verb, t.working.Title))
	} else {
		t.notify(Success, "Livro "+past+" com sucesso!",
			fmt.Sprintf("O livro %s foi %s na sua coleção.", t.working.Title, past))
		// a failed reload keeps the previous list; the mutation itself succeeded
		_ = t.Refresh(ctx)
	}

	t.closeDialog()
	return err
}

// OpenView shows the details of b, discarding any open form.
func (t *Tracker) OpenView(b book.Book) {
	t.working = b
	t.fieldErrors = nil
	t.dialog = DialogView
	t.state = StateIdle
}

func (t *Tracker) CloseView() {
	if t.dialog == DialogView {
		t.closeDialog()
	}
}

// RequestDelete asks for confirmation before removing b, discarding any
// open form.
func (t *Tracker) RequestDelete(b book.Book) {
	t.working = b
	t.fieldErrors = nil
	t.dialog = DialogDelete
	t.state = StateIdle
}

func (t *Tracker) CancelDelete() {
	if t.dialog == DialogDelete {
		t.closeDialog()
	}
}

// ConfirmDelete removes the book pending deletion and reloads the list.
func (t *Tracker) ConfirmDelete(ctx context.Context) error {
	if t.dialog != DialogDelete {
		return ErrNoDeletion
	}

	target := t.working
	err := t.api.DeleteBook(ctx, target.ID)
	if err != nil {
		t.notify(Failure, "Erro ao remover livro!",
			fmt.Sprintf("Ocorreu um erro ao remover o livro %s da sua coleção.", target.Title))
	} else {
		t.notify(Success, "Livro removido com sucesso!",
			fmt.Sprintf("O livro %s foi removido da sua coleção.", target.Title))
		_ = t.Refresh(ctx)
	}

	t.closeDialog()
	return err
}

func (t *Tracker) notify(kind NotificationKind, title, description string) {
	t.notification = &Notification{Kind: kind, Title: title, Description: description}
}

func (t *Tracker) closeDialog() {
	t.dialog = DialogNone
	t.state = StateIdle
	t.working = book.New()
}
