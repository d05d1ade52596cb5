// wishwatch watches a public wishlist and keeps a live view on the
// terminal. It demonstrates the full client stack: the viewer identity,
// the HTTP client, the realtime channel with its poll fallback, and the
// write intents.
//
// Usage:
//
//	wishwatch -url http://localhost:8080 -wishlist <public_id>
//	wishwatch -url http://localhost:8080 -wishlist <public_id> -reserve 12
//	wishwatch -url http://localhost:8080 -wishlist <public_id> -contribute 12 -amount 1500
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wishwell/wishwell/clients/wishclient"
	"github.com/wishwell/wishwell/internal/identity"
	"github.com/wishwell/wishwell/internal/intents"
	"github.com/wishwell/wishwell/internal/models"
	sig "github.com/wishwell/wishwell/internal/signal"
	"github.com/wishwell/wishwell/internal/syncer"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	publicID := flag.String("wishlist", "", "public id of the wishlist to watch")
	reserveItem := flag.Int64("reserve", 0, "reserve this item id before watching")
	contributeItem := flag.Int64("contribute", 0, "contribute to this item id before watching")
	amount := flag.Int64("amount", 0, "contribution amount in cents")
	message := flag.String("message", "", "contribution message")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if *publicID == "" {
		fmt.Fprintln(os.Stderr, "wishwatch: -wishlist is required")
		flag.Usage()
		os.Exit(2)
	}

	provider := identity.NewDefaultProvider()
	client := wishclient.NewClient(*baseURL, provider.Token)

	resyncer := syncer.NewResyncer(
		func(ctx context.Context) (*models.WishlistView, error) {
			return client.PublicWishlist(ctx, *publicID)
		},
		printView,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := sig.NewRegistry()
	submitter := intents.NewSubmitter(client, resyncer.Resync, signals)

	if *reserveItem != 0 {
		if err := submitter.Reserve(ctx, *reserveItem); err != nil {
			fmt.Fprintf(os.Stderr, "reserve failed (%s): %v\n", wishclient.KindOf(err), err)
		} else {
			fmt.Printf("reserved item %d\n", *reserveItem)
		}
	}
	if *contributeItem != 0 {
		if err := submitter.Contribute(ctx, *contributeItem, *amount, *message); err != nil {
			fmt.Fprintf(os.Stderr, "contribute failed (%s): %v\n", wishclient.KindOf(err), err)
		} else {
			fmt.Printf("contributed %d cents to item %d\n", *amount, *contributeItem)
		}
	}

	channelURL, err := wishclient.ChannelURL(*baseURL, *publicID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wishwatch: bad base URL: %v\n", err)
		os.Exit(2)
	}

	coordinator := syncer.NewCoordinator(syncer.Config{
		ChannelURL: channelURL,
		OnChange: func() {
			go resyncer.Resync(ctx)
		},
	})
	coordinator.Start()
	defer coordinator.Stop()
	defer resyncer.Stop()

	// Initial paint before any signal arrives
	resyncer.Resync(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nbye")
}

func printView(view *models.WishlistView) {
	fmt.Printf("\n== %s (%s) ==\n", view.Title, view.Currency)
	for _, item := range view.Items {
		status := "free"
		if item.ReservedByMe {
			status = "reserved by you"
		} else if item.Reserved {
			status = "reserved"
		}
		fmt.Printf("  [%d] %-30s %8d¢  collected %d¢ (yours %d¢)  %s\n",
			item.ID, item.Name, item.PriceCents, item.CollectedCents, item.MyContributionCents, status)
	}
}
