package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	cartdom "boutique/internal/domain/cart"
	checkoutdom "boutique/internal/domain/checkout"
	productdom "boutique/internal/domain/product"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// memCartRepo is an in-memory cart.Repository.
type memCartRepo struct {
	carts     map[string]*cartdom.Cart
	upsertErr error
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: map[string]*cartdom.Cart{}}
}

func (r *memCartRepo) GetBySessionID(_ context.Context, sessionID string) (*cartdom.Cart, error) {
	c, ok := r.carts[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Items = append([]cartdom.Item(nil), c.Items...)
	return &cp, nil
}

func (r *memCartRepo) Upsert(_ context.Context, c *cartdom.Cart) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	cp := *c
	cp.Items = append([]cartdom.Item(nil), c.Items...)
	r.carts[c.ID] = &cp
	return nil
}

func (r *memCartRepo) DeleteBySessionID(_ context.Context, sessionID string) error {
	delete(r.carts, sessionID)
	return nil
}

// memSessionStore is an in-memory session.Store with JSON value semantics.
type memSessionStore struct {
	data   map[string]map[string][]byte
	setErr error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{data: map[string]map[string][]byte{}}
}

func (s *memSessionStore) Set(_ context.Context, sessionID, key string, value any) error {
	if s.setErr != nil {
		return s.setErr
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if s.data[sessionID] == nil {
		s.data[sessionID] = map[string][]byte{}
	}
	s.data[sessionID][key] = b
	return nil
}

func (s *memSessionStore) Get(_ context.Context, sessionID, key string, dest any) (bool, error) {
	b, ok := s.data[sessionID][key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (s *memSessionStore) Delete(_ context.Context, sessionID, key string) error {
	delete(s.data[sessionID], key)
	return nil
}

// memProductRepo is an in-memory product.Repository.
type memProductRepo struct {
	products []productdom.Product
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (productdom.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return productdom.Product{}, productdom.ErrNotFound
}

func (r *memProductRepo) GetBySlug(_ context.Context, slug string) (productdom.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return productdom.Product{}, productdom.ErrNotFound
}

func (r *memProductRepo) List(_ context.Context, filter productdom.Filter) ([]productdom.Product, error) {
	out := append([]productdom.Product(nil), r.products...)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// fakeOrderService records calls; optionally fails, optionally blocks until
// released (for re-entrancy tests).
type fakeOrderService struct {
	calls   int
	fail    bool
	block   chan struct{}
	lastIn  checkoutdom.CreateOrderInput
	orderID string
}

func (s *fakeOrderService) CreateOrder(_ context.Context, in checkoutdom.CreateOrderInput) (checkoutdom.OrderResult, error) {
	s.calls++
	s.lastIn = in
	if s.block != nil {
		<-s.block
	}
	if s.fail {
		return checkoutdom.OrderResult{}, errors.New("order service unavailable")
	}
	id := s.orderID
	if id == "" {
		id = "ord-1"
	}
	return checkoutdom.OrderResult{
		OrderID: id,
		Payload: map[string]any{"order_id": id, "status": "created"},
	}, nil
}

// fakeMailer records confirmation sends.
type fakeMailer struct {
	sent []string
	fail bool
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, toEmail string, _ checkoutdom.Handoff) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, strings.TrimSpace(toEmail))
	return nil
}
