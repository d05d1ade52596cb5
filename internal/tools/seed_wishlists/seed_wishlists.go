package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wishwell/wishwell/internal/dbconfig"
)

// Wishlist mirrors the JSON fixture structure
type Wishlist struct {
	PublicID    string `json:"public_id"`
	OwnerEmail  string `json:"owner_email"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
	IsPublic    bool   `json:"is_public"`
	Items       []Item `json:"items"`
}

type Item struct {
	Name               string `json:"name"`
	URL                string `json:"url"`
	PriceCents         int64  `json:"price_cents"`
	AllowContributions bool   `json:"allow_contributions"`
	Position           int    `json:"position"`
}

func main() {
	path := "internal/assets/wishlists.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the JSON fixture
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var wishlists []Wishlist
	if err := json.Unmarshal(data, &wishlists); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Upsert owners, wishlists, items
	var (
		total    = len(wishlists)
		inserted int
		skipped  int
		errs     int
		items    int
	)

	ctx := context.Background()
	for _, w := range wishlists {
		var ownerID int64
		err := pool.QueryRow(ctx, `
            INSERT INTO users (email) VALUES ($1)
            ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
            RETURNING id
        `, w.OwnerEmail).Scan(&ownerID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error upserting owner %s: %v\n", w.OwnerEmail, err)
			errs++
			continue
		}

		var wishlistID int64
		err = pool.QueryRow(ctx, `
            INSERT INTO wishlists (public_id, owner_id, title, description, currency, is_public)
            VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
            ON CONFLICT (public_id) DO NOTHING
            RETURNING id
        `, w.PublicID, ownerID, w.Title, w.Description, w.Currency, w.IsPublic).Scan(&wishlistID)
		if err != nil {
			// No row returned means the wishlist already exists
			skipped++
			continue
		}
		inserted++

		for _, item := range w.Items {
			_, err := pool.Exec(ctx, `
                INSERT INTO wishlist_items (wishlist_id, name, url, price_cents, allow_contributions, position)
                VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
            `, wishlistID, item.Name, item.URL, item.PriceCents, item.AllowContributions, item.Position)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error inserting item %s: %v\n", item.Name, err)
				errs++
				continue
			}
			items++
		}
	}

	// 4) Print summary
	fmt.Printf(
		"Wishlists seed complete: %d total, %d inserted, %d skipped, %d items, %d errors\n",
		total, inserted, skipped, items, errs,
	)
}
