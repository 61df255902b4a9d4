package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/xpkg/config"
	"veggie-orders/pkg/logger"
)

// Mailer sends new-order emails to the cashier inboxes over SMTP.
type Mailer struct {
	cfg   *config.SMTP
	mylog logger.Logger
	send  func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg *config.SMTP, mylog logger.Logger) *Mailer {
	return &Mailer{
		cfg:   cfg,
		mylog: mylog,
		send:  smtp.SendMail,
	}
}

// OrderCreated formats and sends one email per event. A failed send is
// logged and reported; the caller decides whether to requeue.
func (m *Mailer) OrderCreated(evt dto.OrderCreatedEvent) error {
	recipients := splitRecipients(m.cfg.Recipients)
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	msg := m.compose(evt, recipients)
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, recipients, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m.mylog.Action("order_email_sent").Info("New order email sent",
		"order_id", evt.OrderID, "recipients", len(recipients))
	return nil
}

func (m *Mailer) compose(evt dto.OrderCreatedEvent, recipients []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&b, "Subject: New order #%d\r\n", evt.OrderID)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")

	fmt.Fprintf(&b, "Order #%d received at %s\r\n\r\n", evt.OrderID, evt.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Customer: %s (%s)\r\n", evt.CustomerName, evt.CustomerPhone)
	fmt.Fprintf(&b, "Delivery: %s, %s\r\n\r\n", evt.ZoneName, evt.Street)
	b.WriteString("Items:\r\n")
	for _, item := range evt.Items {
		fmt.Fprintf(&b, "  - %s x%d (%s)\r\n", item.NameAr, item.Qty, item.Unit)
	}
	fmt.Fprintf(&b, "\r\nTotal: %s JOD\r\n", evt.Total.StringFixed(2))

	return []byte(b.String())
}

func splitRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
