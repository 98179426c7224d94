package main

import (
	"context"
	"fmt"
	"math/rand"

	"booktracker/internal/book"
)

type bookCreator interface {
	CreateBook(ctx context.Context, b book.Book) (book.Book, error)
}

// seed creates books in order and stops at the first failure.
func seed(ctx context.Context, c bookCreator, books []book.Book) (int, error) {
	for i, b := range books {
		if _, err := c.CreateBook(ctx, b); err != nil {
			return i, fmt.Errorf("create %q: %w", b.Title, err)
		}
	}
	return len(books), nil
}

func sampleBooks() []book.Book {
	return []book.Book{
		{Title: "Dom Casmurro", Author: "Machado de Assis", Genre: "Romance",
			Pages: 256, CurrentPage: 256, Status: book.StatusFinished, Rating: book.IntPtr(5)},
		{Title: "Grande Sertão: Veredas", Author: "João Guimarães Rosa", Genre: "Romance",
			Pages: 624, CurrentPage: 180, Status: book.StatusReading, Rating: book.IntPtr(4)},
		{Title: "A Hora da Estrela", Author: "Clarice Lispector", Genre: "Novela",
			Pages: 88, Status: book.StatusToRead, Rating: book.IntPtr(0)},
		{Title: "Capitães da Areia", Author: "Jorge Amado", Genre: "Romance",
			Pages: 280, CurrentPage: 280, Status: book.StatusFinished, Rating: book.IntPtr(4)},
		{Title: "O Alienista", Author: "Machado de Assis", Genre: "Conto",
			Pages: 96, CurrentPage: 40, Status: book.StatusReading, Rating: book.IntPtr(3)},
		{Title: "Torto Arado", Author: "Itamar Vieira Junior", Genre: "Romance",
			Pages: 264, Status: book.StatusToRead, Rating: book.IntPtr(0)},
	}
}

var (
	genres = []string{"Romance", "Ficção Científica", "História", "Biografia", "Poesia", "Mistério", "Filosofia"}
	words  = []string{
		"Aventura", "Mistério", "Jornada", "Segredos", "Sonhos", "Esperança",
		"Guerra", "Paz", "Natureza", "Memória", "Tempo", "Silêncio", "Mar", "Sertão",
	}
)

// generateBooks builds n valid books with random content.
func generateBooks(n int) []book.Book {
	out := make([]book.Book, 0, n)
	for i := 0; i < n; i++ {
		b := book.Book{
			Title:  fmt.Sprintf("%s e %s %d", randomWord(), randomWord(), i+1),
			Author: fmt.Sprintf("Autor %d", rand.Intn(500)+1),
			Genre:  genres[rand.Intn(len(genres))],
			Pages:  100 + rand.Intn(800),
			Status: book.Status(rand.Intn(3)),
			Rating: book.IntPtr(rand.Intn(6)),
		}
		if b.Status == book.StatusReading {
			b.CurrentPage = rand.Intn(b.Pages + 1)
		}
		book.Normalize(&b)
		out = append(out, b)
	}
	return out
}

func randomWord() string {
	return words[rand.Intn(len(words))]
}
