package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
)

// Fetcher retrieves the cart policy from wherever it lives (usually the
// settings endpoint over HTTP).
type Fetcher interface {
	FetchCartConfig(ctx context.Context) (CartConfig, error)
}

// Provider hands the persistence policy to the cart client. The policy is
// fetched lazily once and cached; Refresh drops the cached copy first so a
// full cart reload never trusts a stale policy. Fetch failures degrade to
// DefaultCartConfig and are never surfaced as errors.
type Provider struct {
	mu      sync.Mutex
	fetcher Fetcher
	loaded  bool
	cfg     CartConfig
}

func NewProvider(f Fetcher) *Provider {
	return &Provider{fetcher: f}
}

func (p *Provider) Get(ctx context.Context) CartConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.cfg
	}
	return p.fetchLocked(ctx)
}

func (p *Provider) Refresh(ctx context.Context) CartConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetchLocked(ctx)
}

func (p *Provider) fetchLocked(ctx context.Context) CartConfig {
	cfg, err := p.fetcher.FetchCartConfig(ctx)
	if err != nil {
		log.Printf("settings: policy fetch failed, using defaults: %v", err)
		cfg = DefaultCartConfig()
	}
	p.cfg = cfg
	p.loaded = true
	return cfg
}

// HTTPFetcher reads the policy from GET {base}/api/v1/settings/cart.
type HTTPFetcher struct {
	Base   string
	Client *http.Client
}

func (f *HTTPFetcher) FetchCartConfig(ctx context.Context) (CartConfig, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Base+"/api/v1/settings/cart", nil)
	if err != nil {
		return CartConfig{}, err
	}
	res, err := client.Do(req)
	if err != nil {
		return CartConfig{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return CartConfig{}, fmt.Errorf("settings fetch returned status %d", res.StatusCode)
	}

	var body struct {
		Success bool `json:"success"`
		Data    *struct {
			Cart *CartConfig `json:"cart"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return CartConfig{}, err
	}
	if !body.Success || body.Data == nil || body.Data.Cart == nil {
		return CartConfig{}, fmt.Errorf("settings response missing cart configuration")
	}
	return *body.Data.Cart, nil
}
