package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"booktracker/internal/book"
)

var fieldOrder = []string{"title", "author", "genre", "pages", "currentPage", "status", "rating"}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func summary(n int) string {
	switch n {
	case 0:
		return "Nenhum livro registrado"
	case 1:
		return "1 livro em sua coleção"
	}
	return fmt.Sprintf("%d livros em sua coleção", n)
}

func renderList(out io.Writer, books []book.Book) error {
	fmt.Fprintln(out, summary(len(books)))
	if len(books) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLivro\tAutor(a)\tGênero\tProgresso\tStatus\tAvaliação")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			b.ID, b.Title, b.Author, b.Genre, b.CurrentPage, b.Pages, b.Status, stars(b.RatingValue()))
	}
	return tw.Flush()
}

func renderBook(out io.Writer, b book.Book) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", b.ID)
	fmt.Fprintf(tw, "%s:\t%s\n", book.Labels["title"], b.Title)
	fmt.Fprintf(tw, "%s:\t%s\n", book.Labels["author"], b.Author)
	fmt.Fprintf(tw, "%s:\t%s\n", book.Labels["genre"], b.Genre)
	fmt.Fprintf(tw, "%s:\t%d\n", book.Labels["pages"], b.Pages)
	fmt.Fprintf(tw, "%s:\t%d\n", book.Labels["currentPage"], b.CurrentPage)
	fmt.Fprintf(tw, "%s:\t%s\n", book.Labels["status"], b.Status)
	fmt.Fprintf(tw, "%s:\t%s\n", book.Labels["rating"], stars(b.RatingValue()))
	return tw.Flush()
}

func renderFieldErrors(out io.Writer, errs map[string][]string) {
	for _, field := range fieldOrder {
		for _, msg := range errs[field] {
			fmt.Fprintf(out, "- %s: %s\n", book.Labels[field], msg)
		}
	}
}
