package book

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrIDMismatch is returned when an update names one id in the path and another in the payload.
var ErrIDMismatch = errors.New("book id does not match payload id")

// Status is the reading progress of a book. It travels as a number on the wire.
type Status int

const (
	StatusToRead Status = iota
	StatusReading
	StatusFinished
)

var statusLabels = map[Status]string{
	StatusToRead:   "Para ler",
	StatusReading:  "Lendo",
	StatusFinished: "Finalizado",
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// ParseStatus accepts either the wire number ("0".."2") or a label.
func ParseStatus(v string) (Status, error) {
	if n, err := strconv.Atoi(v); err == nil {
		s := Status(n)
		if !s.Valid() {
			return 0, fmt.Errorf("invalid status: %s", v)
		}
		return s, nil
	}
	switch v {
	case "toread", "to-read", "ToRead", statusLabels[StatusToRead]:
		return StatusToRead, nil
	case "reading", "Reading", statusLabels[StatusReading]:
		return StatusReading, nil
	case "finished", "Finished", statusLabels[StatusFinished]:
		return StatusFinished, nil
	}
	return 0, fmt.Errorf("invalid status: %s", v)
}

// Book represents a tracked book.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre" validate:"required"`
	Pages       int    `json:"pages" validate:"gt=0"`
	CurrentPage int    `json:"currentPage" validate:"gte=0,ltefield=Pages"`
	Status      Status `json:"status" validate:"status"`
	Rating      *int   `json:"rating" validate:"omitempty,min=0,max=5"`
}

// New returns the blank book a create form starts from.
func New() Book {
	rating := 0
	return Book{Status: StatusToRead, Rating: &rating}
}

// Normalize applies the status rules: a finished book is on its last page,
// a book still to read has not been started.
func Normalize(b *Book) {
	switch b.Status {
	case StatusFinished:
		b.CurrentPage = b.Pages
	case StatusToRead:
		b.CurrentPage = 0
	}
}

// RatingValue returns the rating, treating an unset rating as zero.
func (b Book) RatingValue() int {
	if b.Rating == nil {
		return 0
	}
	return *b.Rating
}

// IntPtr is a small helper for building optional ratings.
func IntPtr(v int) *int {
	return &v
}
