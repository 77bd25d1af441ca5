package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/velomart/storefront-backend/internal/cart"
	"github.com/velomart/storefront-backend/internal/cartsync"
	"github.com/velomart/storefront-backend/internal/product"
	"github.com/velomart/storefront-backend/internal/settings"
)

// kiosk is a small terminal client that drives the cart engine against a
// running storefront API. With no token it behaves like a guest device with a
// locally persisted cart; with STOREFRONT_TOKEN set it uses the server cart.
func main() {
	_ = godotenv.Load()

	var (
		base    = flag.String("api", envOr("STOREFRONT_API", "http://localhost:8080"), "storefront API base URL")
		session = flag.String("session", envOr("KIOSK_SESSION", ""), "guest session id (empty for a fresh cart)")
		dir     = flag.String("dir", defaultStateDir(), "directory for the guest cart file")
	)
	flag.Parse()

	token := os.Getenv("STOREFRONT_TOKEN")
	httpClient := &http.Client{Timeout: 10 * time.Second}

	engine := cartsync.NewEngine(
		staticAuth(token != ""),
		cartsync.NewClient(*base, httpClient, func() string { return token }),
		cartsync.NewFileStore(*dir, *session),
		settings.NewProvider(&settings.HTTPFetcher{Base: *base, Client: httpClient}),
	)

	ctx := context.Background()
	if _, err := engine.Refresh(ctx); err != nil {
		log.Printf("refresh failed, starting from the last known state: %v", err)
	}

	// demo flow: add two mugs, bump a shirt, show the cart
	mug := product.Product{ID: 1, Name: "Ceramic Mug", Price: 250}
	shirt := product.Product{ID: 2, Name: "Linen Shirt", Price: 1200, DiscountPercent: 25}

	mustMutate(engine.Add(ctx, mug, 2, nil))
	mustMutate(engine.Add(ctx, shirt, 1, []cart.VariantOption{{Name: "size", Value: "M"}}))
	res := mustMutate(engine.UpdateQuantity(ctx, shirt.ID, 3, []cart.VariantOption{{Name: "size", Value: "M"}}))

	printCart(res)
}

type staticAuth bool

func (a staticAuth) Authenticated() bool { return bool(a) }

func mustMutate(res cartsync.Result, err error) cartsync.Result {
	if err != nil {
		log.Fatalf("cart mutation failed: %v", err)
	}
	if res.Status == cartsync.StatusDropped {
		log.Printf("mutation dropped: another one was in flight")
	}
	return res
}

func printCart(res cartsync.Result) {
	fmt.Println("cart:")
	for _, l := range res.Items {
		fmt.Printf("  %dx %s @ %d", l.Quantity, l.ProductName, l.UnitPrice)
		if l.OriginalPrice != nil {
			fmt.Printf(" (was %d)", *l.OriginalPrice)
		}
		for _, v := range l.Variants {
			fmt.Printf(" [%s=%s]", v.Name, v.Value)
		}
		fmt.Println()
	}
	fmt.Printf("total: %d\n", res.TotalPrice)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStateDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return os.TempDir()
	}
	return dir
}
