package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"booktracker/internal/client"

	"github.com/joho/godotenv"
)

func main() {
	random := flag.Int("random", 0, "Number of generated books to add after the samples")
	flag.Parse()

	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:5040"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c := client.NewClient(apiURL, 10*time.Second)

	books := append(sampleBooks(), generateBooks(*random)...)
	log.Printf("Seeding %d books into %s", len(books), apiURL)

	created, err := seed(ctx, c, books)
	if err != nil {
		log.Fatalf("Failed after %d books: %v", created, err)
	}
	log.Printf("Successfully created %d books!", created)

	all, err := c.ListBooks(ctx)
	if err != nil {
		log.Fatalf("Failed to list books: %v", err)
	}
	log.Printf("Total books in collection: %d", len(all))
}
