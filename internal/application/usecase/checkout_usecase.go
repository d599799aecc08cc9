// backend/internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	cartdom "boutique/internal/domain/cart"
	checkoutdom "boutique/internal/domain/checkout"
	sessiondom "boutique/internal/domain/session"
)

var ErrCheckoutInvalidArgument = errors.New("checkout_usecase: invalid argument")

// OrderConfirmationSender is the outbound port for the post-checkout email.
// Sending is best effort; failures never fail the checkout.
type OrderConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, toEmail string, h checkoutdom.Handoff) error
}

// CheckoutUsecase snapshots the cart, delegates order creation to the
// external order service, persists the handoff for the confirmation view,
// and clears the cart exactly once on success.
//
// Per-session re-entrancy guard: a second Checkout while one is in flight is
// refused with ErrCheckoutInFlight, so one user action never submits two
// orders.
type CheckoutUsecase struct {
	carts    cartdom.Repository
	orders   checkoutdom.OrderService
	sessions sessiondom.Store
	mailer   OrderConfirmationSender // optional
	clock    Clock

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewCheckoutUsecase(
	carts cartdom.Repository,
	orders checkoutdom.OrderService,
	sessions sessiondom.Store,
	mailer OrderConfirmationSender,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:    carts,
		orders:   orders,
		sessions: sessions,
		mailer:   mailer,
		clock:    systemClock{},
		inFlight: map[string]bool{},
	}
}

// NewCheckoutUsecaseWithClock is useful for tests.
func NewCheckoutUsecaseWithClock(
	carts cartdom.Repository,
	orders checkoutdom.OrderService,
	sessions sessiondom.Store,
	mailer OrderConfirmationSender,
	clock Clock,
) *CheckoutUsecase {
	uc := NewCheckoutUsecase(carts, orders, sessions, mailer)
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// CheckoutInput carries the checkout trigger's context. CurrencyCode comes
// from the settings source and is treated as an opaque string. Email is
// optional (confirmation mail).
type CheckoutInput struct {
	SessionID    string
	CurrencyCode string
	Email        string
}

// Checkout runs the coordinated checkout steps, each with its own failure
// boundary:
//
//  1. snapshot the cart (ErrEmptyCart when there is nothing to order)
//  2. persist the snapshot *before* contacting the order service, so a
//     failure in step 3 still leaves a recoverable snapshot
//  3. create the order; on failure the cart and the persisted snapshot are
//     left intact and the error is surfaced for retry
//  4. persist the handoff (overwriting the same slot) and clear the cart
//
// Storage write failures in steps 2 and 4 are logged and non-fatal: the
// already-created order is never rolled back over a bookkeeping write.
func (uc *CheckoutUsecase) Checkout(ctx context.Context, in CheckoutInput) (checkoutdom.Handoff, error) {
	sid := strings.TrimSpace(in.SessionID)
	if sid == "" {
		return checkoutdom.Handoff{}, ErrCheckoutInvalidArgument
	}

	if !uc.acquire(sid) {
		return checkoutdom.Handoff{}, checkoutdom.ErrCheckoutInFlight
	}
	defer uc.release(sid)

	now := uc.clock.Now()

	// 1. capture the snapshot
	c, err := uc.carts.GetBySessionID(ctx, sid)
	if err != nil {
		return checkoutdom.Handoff{}, err
	}
	if c == nil || len(c.Items) == 0 {
		return checkoutdom.Handoff{}, checkoutdom.ErrEmptyCart
	}
	snap := checkoutdom.NewSnapshot(c.Snapshot(now), strings.TrimSpace(in.CurrencyCode))

	// 2. persist the snapshot ahead of the order call
	if err := uc.sessions.Set(ctx, sid, sessiondom.KeyCheckoutCart, snap); err != nil {
		log.Printf("[checkout_usecase] WARN: snapshot persist failed session=%s: %v", sid, err)
	}

	// 3. create the order
	result, err := uc.orders.CreateOrder(ctx, checkoutdom.CreateOrderInput{
		Items:        checkoutdom.OrderItemsFromSnapshot(snap),
		TotalCents:   snap.Total.Cents,
		CurrencyCode: snap.CurrencyCode,
	})
	if err != nil {
		return checkoutdom.Handoff{}, fmt.Errorf("%w: %v", checkoutdom.ErrOrderCreationFailed, err)
	}

	handoff := checkoutdom.Handoff{
		OrderID:   result.OrderID,
		Order:     result.Payload,
		Snapshot:  snap,
		CreatedAt: now,
	}

	// 4. persist the handoff, then clear the cart
	if err := uc.sessions.Set(ctx, sid, sessiondom.KeyCheckoutOrder, handoff); err != nil {
		log.Printf("[checkout_usecase] WARN: handoff persist failed session=%s order=%s: %v", sid, handoff.OrderID, err)
	}
	if err := uc.sessions.Set(ctx, sid, sessiondom.KeyCheckoutOrderID, handoff.OrderID); err != nil {
		log.Printf("[checkout_usecase] WARN: order id persist failed session=%s order=%s: %v", sid, handoff.OrderID, err)
	}

	if err := c.Clear(now); err != nil {
		return checkoutdom.Handoff{}, err
	}
	if err := uc.carts.Upsert(ctx, c); err != nil {
		log.Printf("[checkout_usecase] WARN: cart clear persist failed session=%s: %v", sid, err)
	}

	// best-effort confirmation mail
	if uc.mailer != nil {
		if email := strings.TrimSpace(in.Email); email != "" {
			if err := uc.mailer.SendOrderConfirmation(ctx, email, handoff); err != nil {
				log.Printf("[checkout_usecase] WARN: confirmation mail failed order=%s: %v", handoff.OrderID, err)
			}
		}
	}

	log.Printf("[checkout_usecase] order created session=%s order=%s total=%s", sid, handoff.OrderID, snap.Total.Format())
	return handoff, nil
}

// ReadHandoff returns the persisted handoff for the confirmation view.
// Stale or missing data reads as (nil, nil): "no recent order", not an error.
func (uc *CheckoutUsecase) ReadHandoff(ctx context.Context, sessionID string) (*checkoutdom.Handoff, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrCheckoutInvalidArgument
	}

	var h checkoutdom.Handoff
	ok, err := uc.sessions.Get(ctx, sid, sessiondom.KeyCheckoutOrder, &h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (uc *CheckoutUsecase) acquire(sessionID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.inFlight[sessionID] {
		return false
	}
	uc.inFlight[sessionID] = true
	return true
}

func (uc *CheckoutUsecase) release(sessionID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inFlight, sessionID)
}
