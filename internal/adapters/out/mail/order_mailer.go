// backend/internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"

	checkoutdom "boutique/internal/domain/checkout"
)

// OrderMailer sends the post-checkout confirmation mail. Implements the
// checkout usecase's OrderConfirmationSender port on top of EmailClient.
type OrderMailer struct {
	client      EmailClient
	fromAddress string
	storeName   string
}

func NewOrderMailer(client EmailClient, fromAddress, storeName string) *OrderMailer {
	name := strings.TrimSpace(storeName)
	if name == "" {
		name = "Boutique"
	}
	return &OrderMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		storeName:   name,
	}
}

func (m *OrderMailer) SendOrderConfirmation(ctx context.Context, toEmail string, h checkoutdom.Handoff) error {
	subject := fmt.Sprintf("[%s] Order confirmation %s", m.storeName, strings.TrimSpace(h.OrderID))
	return m.client.Send(ctx, m.fromAddress, strings.TrimSpace(toEmail), subject, m.buildBody(h))
}

func (m *OrderMailer) buildBody(h checkoutdom.Handoff) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Thank you for your order.\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n\n", strings.TrimSpace(h.OrderID))

	for _, it := range h.Snapshot.Items {
		fmt.Fprintf(&b, "  %d x %s  %s\n", it.Qty, it.Title, it.LineTotal().Format())
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", h.Snapshot.Total.Format())
	fmt.Fprintf(&b, "\n--\n%s", m.storeName)

	return b.String()
}
