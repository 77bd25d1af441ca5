package cartsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/velomart/storefront-backend/internal/cart"
)

// RemoteStore is the authoritative cart reached over request/response calls.
// Every mutation returns the full server-side cart so the engine can converge
// on it.
type RemoteStore interface {
	Fetch(ctx context.Context) (cart.Data, error)
	Upsert(ctx context.Context, productID, quantity int, variants []cart.VariantOption) (cart.Data, error)
	Remove(ctx context.Context, productID int, variants []cart.VariantOption) (cart.Data, error)
	Clear(ctx context.Context) (cart.Data, error)
}

// Client speaks the cart API envelope over HTTP. Timeouts belong to the
// supplied http.Client, not to this type.
type Client struct {
	base  string
	http  *http.Client
	token func() string
}

func NewClient(base string, httpClient *http.Client, token func() string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient, token: token}
}

type lineRequest struct {
	ProductID int                  `json:"productID"`
	Quantity  int                  `json:"quantity,omitempty"`
	Variants  []cart.VariantOption `json:"variants,omitempty"`
}

func (c *Client) Fetch(ctx context.Context) (cart.Data, error) {
	return c.call(ctx, http.MethodGet, "/api/v1/cart", nil)
}

func (c *Client) Upsert(ctx context.Context, productID, quantity int, variants []cart.VariantOption) (cart.Data, error) {
	return c.call(ctx, http.MethodPost, "/api/v1/cart/items", &lineRequest{
		ProductID: productID,
		Quantity:  quantity,
		Variants:  variants,
	})
}

func (c *Client) Remove(ctx context.Context, productID int, variants []cart.VariantOption) (cart.Data, error) {
	return c.call(ctx, http.MethodDelete, "/api/v1/cart/items", &lineRequest{
		ProductID: productID,
		Variants:  variants,
	})
}

func (c *Client) Clear(ctx context.Context) (cart.Data, error) {
	return c.call(ctx, http.MethodDelete, "/api/v1/cart", nil)
}

func (c *Client) call(ctx context.Context, method, path string, payload *lineRequest) (cart.Data, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return cart.Data{}, err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return cart.Data{}, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return cart.Data{}, err
	}
	defer res.Body.Close()

	var env cart.Envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return cart.Data{}, fmt.Errorf("cart api returned unreadable response: %w", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", res.StatusCode)
		}
		return cart.Data{}, fmt.Errorf("cart api rejected request: %s", msg)
	}
	if env.Data == nil {
		return cart.Data{Items: []cart.Line{}}, nil
	}
	if env.Data.Items == nil {
		env.Data.Items = []cart.Line{}
	}
	return *env.Data, nil
}
