package cartsync

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/velomart/storefront-backend/internal/cart"
	"github.com/velomart/storefront-backend/internal/pricing"
	"github.com/velomart/storefront-backend/internal/product"
	"github.com/velomart/storefront-backend/internal/settings"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Auth answers whether the session is signed in. The engine asks on every
// mutation rather than caching the answer, because a session can sign in or
// out between calls.
type Auth interface {
	Authenticated() bool
}

// ConfigProvider supplies the persistence policy for the guest path.
type ConfigProvider interface {
	Get(ctx context.Context) settings.CartConfig
	Refresh(ctx context.Context) settings.CartConfig
}

// Status is the outcome of one mutation attempt.
type Status int

const (
	// StatusCommitted means the mutation was applied and the returned state
	// is consistent with the authoritative store.
	StatusCommitted Status = iota
	// StatusDropped means another mutation was in flight and this one was a
	// no-op; the returned state is the untouched current cart.
	StatusDropped
	// StatusRolledBack means the authoritative call failed and the returned
	// state is the pre-call contents, whether restored (mutations) or simply
	// untouched (a failed refresh).
	StatusRolledBack
)

// Result is what every mutation returns: an explicit outcome plus the cart
// state the caller may render. There is never a visible half-committed state.
type Result struct {
	Status     Status
	Items      []cart.Line
	TotalPrice int
}

// Engine keeps one cart consistent across a guest local store and an
// authenticated server store, applying optimistic updates with rollback on
// the authenticated path. One mutation at a time: overlapping calls are
// dropped, not queued, which callers should absorb by debouncing.
type Engine struct {
	auth   Auth
	remote RemoteStore
	local  LocalStore
	config ConfigProvider
	now    func() time.Time

	mu          sync.Mutex
	inFlight    bool
	initialized bool
	items       []cart.Line
	total       int
}

func NewEngine(auth Auth, remote RemoteStore, local LocalStore, config ConfigProvider) *Engine {
	return &Engine{
		auth:   auth,
		remote: remote,
		local:  local,
		config: config,
		now:    time.Now,
		items:  []cart.Line{},
	}
}

// Snapshot returns the current cart state without touching any store.
func (e *Engine) Snapshot() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current(StatusCommitted)
}

// Add puts quantity units of the product in the cart, merging into an
// existing line with the same identity.
func (e *Engine) Add(ctx context.Context, p product.Product, quantity int, variants []cart.VariantOption) (Result, error) {
	if quantity < 1 {
		return e.Snapshot(), ErrInvalidQuantity
	}

	if !e.begin() {
		return e.Snapshot().dropped(), nil
	}
	defer e.end()

	line := e.buildLine(p, quantity, variants)
	return e.mutate(ctx, func(items []cart.Line) []cart.Line {
		return cart.MergeLine(items, line)
	}, func(items []cart.Line) (cart.Data, error) {
		// the server upsert carries the absolute merged quantity
		qty := quantity
		if i := cart.FindLine(items, p.ID, variants); i >= 0 {
			qty = items[i].Quantity
		}
		return e.remote.Upsert(ctx, p.ID, qty, variants)
	})
}

// UpdateQuantity sets the quantity of the line with the given identity. A
// target below 1 is a remove, not an error. Updating a line that is not in
// the cart changes nothing.
func (e *Engine) UpdateQuantity(ctx context.Context, productID, quantity int, variants []cart.VariantOption) (Result, error) {
	if quantity < 1 {
		return e.Remove(ctx, productID, variants)
	}

	if !e.begin() {
		return e.Snapshot().dropped(), nil
	}
	defer e.end()

	e.mu.Lock()
	found := cart.FindLine(e.items, productID, variants) >= 0
	e.mu.Unlock()
	if !found {
		return e.committedResult(), nil
	}

	return e.mutate(ctx, func(items []cart.Line) []cart.Line {
		if i := cart.FindLine(items, productID, variants); i >= 0 {
			items[i].Quantity = quantity
		}
		return items
	}, func(items []cart.Line) (cart.Data, error) {
		return e.remote.Upsert(ctx, productID, quantity, variants)
	})
}

// Remove drops the line with the given identity.
func (e *Engine) Remove(ctx context.Context, productID int, variants []cart.VariantOption) (Result, error) {
	if !e.begin() {
		return e.Snapshot().dropped(), nil
	}
	defer e.end()

	return e.mutate(ctx, func(items []cart.Line) []cart.Line {
		return cart.RemoveLine(items, productID, variants)
	}, func(items []cart.Line) (cart.Data, error) {
		return e.remote.Remove(ctx, productID, variants)
	})
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context) (Result, error) {
	if !e.begin() {
		return e.Snapshot().dropped(), nil
	}
	defer e.end()

	if e.auth.Authenticated() {
		snapshot := e.takeSnapshot()
		e.setState([]cart.Line{})
		data, err := e.remote.Clear(ctx)
		if err != nil {
			e.restore(snapshot)
			return e.snapshotStatus(StatusRolledBack), err
		}
		e.adopt(data)
		return e.committedResult(), nil
	}

	e.setState([]cart.Line{})
	if err := e.local.Clear(); err != nil {
		log.Printf("cart: local clear failed: %v", err)
	}
	return e.committedResult(), nil
}

// Refresh reloads the cart from the authoritative side for the current auth
// state. The guest path re-fetches the persistence policy first so a changed
// policy is honored before any local read.
func (e *Engine) Refresh(ctx context.Context) (Result, error) {
	if !e.begin() {
		return e.Snapshot().dropped(), nil
	}
	defer e.end()

	if e.auth.Authenticated() {
		data, err := e.remote.Fetch(ctx)
		if err != nil {
			// keep whatever state we had; nothing was committed
			return e.snapshotStatus(StatusRolledBack), err
		}
		e.adopt(data)
	} else {
		cfg := e.config.Refresh(ctx)
		e.setState(e.local.Load(cfg))
	}

	e.mu.Lock()
	e.initialized = true
	e.mu.Unlock()
	return e.committedResult(), nil
}

// Initialized reports whether a Refresh has completed since construction.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// mutate runs one gated mutation: optimistic apply, then either the remote
// round trip with rollback (authenticated) or the best-effort local write
// (guest). The auth branch is decided here, fresh, for every call.
func (e *Engine) mutate(
	ctx context.Context,
	apply func(items []cart.Line) []cart.Line,
	remoteCall func(items []cart.Line) (cart.Data, error),
) (Result, error) {
	authenticated := e.auth.Authenticated()

	snapshot := e.takeSnapshot()
	next := apply(cart.CloneLines(snapshot))
	e.setState(next)

	if authenticated {
		data, err := remoteCall(next)
		if err != nil {
			e.restore(snapshot)
			return e.snapshotStatus(StatusRolledBack), err
		}
		// never partially trust the optimistic guess
		e.adopt(data)
		return e.committedResult(), nil
	}

	cfg := e.config.Get(ctx)
	if err := e.local.Save(next, cfg); err != nil {
		// persistence failures do not revert in-memory state; the cart
		// stays usable for the session
		log.Printf("cart: local persist failed: %v", err)
	}
	return e.committedResult(), nil
}

// begin takes the in-flight gate; false means another mutation owns it.
func (e *Engine) begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight {
		return false
	}
	e.inFlight = true
	return true
}

func (e *Engine) end() {
	e.mu.Lock()
	e.inFlight = false
	e.mu.Unlock()
}

func (e *Engine) buildLine(p product.Product, quantity int, variants []cart.VariantOption) cart.Line {
	res := pricing.Resolve(p.PricingFacts(), e.now())
	line := cart.Line{
		ProductID:     p.ID,
		ProductName:   p.Name,
		UnitPrice:     res.FinalPrice,
		OriginalPrice: res.OriginalPrice,
		Quantity:      quantity,
		Variants:      variants,
		CampaignLabel: res.CampaignLabel,
	}
	if res.FlashActive {
		line.FlashDeal = true
		line.FlashEndsAt = res.EndsAt
	}
	if res.SpecialActive {
		line.SpecialOffer = true
		line.SpecialEndsAt = res.EndsAt
	}
	return line
}

func (e *Engine) takeSnapshot() []cart.Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cart.CloneLines(e.items)
}

func (e *Engine) setState(items []cart.Line) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = items
	e.total = cart.Total(items)
}

func (e *Engine) restore(snapshot []cart.Line) {
	e.setState(snapshot)
}

func (e *Engine) adopt(data cart.Data) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if data.Items == nil {
		data.Items = []cart.Line{}
	}
	e.items = data.Items
	e.total = data.TotalPrice
}

func (e *Engine) committedResult() Result {
	return e.snapshotStatus(StatusCommitted)
}

func (e *Engine) snapshotStatus(status Status) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current(status)
}

func (e *Engine) current(status Status) Result {
	return Result{
		Status:     status,
		Items:      cart.CloneLines(e.items),
		TotalPrice: e.total,
	}
}

func (r Result) dropped() Result {
	r.Status = StatusDropped
	return r
}
