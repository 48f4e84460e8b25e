package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	orderModel "storefront-checkout/internal/domains/order/model"
	userModel "storefront-checkout/internal/domains/user/model"
	"storefront-checkout/pkg/logger"
)

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// OrderMailer sends order confirmations over plain SMTP.
type OrderMailer struct {
	smtpAddr string
	smtpFrom string
	shopName string
	send     sendFunc
}

// NewDevOrderMailer sends unauthenticated mail, e.g. to a local mailhog.
func NewDevOrderMailer(smtpHost, smtpPort, from, shopName string) *OrderMailer {
	return &OrderMailer{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
		shopName: shopName,
		send:     smtp.SendMail,
	}
}

func (s *OrderMailer) SendOrderConfirmation(ctx context.Context, order *orderModel.Order, user *userModel.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil || user.Email == "" {
		return fmt.Errorf("order %s: no recipient", order.ID)
	}

	subject := fmt.Sprintf("%s: your order %s", s.shopName, order.ID)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.smtpFrom, user.Email, subject, confirmationBody(order, user)))

	if err := s.send(s.smtpAddr, nil, s.smtpFrom, []string{user.Email}, msg); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        user.Email,
			"order_id":  order.ID,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func confirmationBody(order *orderModel.Order, user *userModel.User) string {
	var b strings.Builder

	name := strings.TrimSpace(user.Billing.FirstName + " " + user.Billing.LastName)
	if name == "" {
		name = user.FullName
	}
	fmt.Fprintf(&b, "Hello %s,\r\n\r\nthank you for your order.\r\n\r\n", name)

	for _, it := range order.Items {
		fmt.Fprintf(&b, "%3d x %-40s %s %s\r\n", it.Quantity, it.Title, it.Total.StringFixed(2), order.Currency)
	}
	b.WriteString("\r\n")
	if !order.Discount.IsZero() {
		fmt.Fprintf(&b, "Discount: -%s %s\r\n", order.Discount.StringFixed(2), order.Currency)
	}
	fmt.Fprintf(&b, "Shipping: %s %s\r\n", order.DeliveryCost.StringFixed(2), order.Currency)
	if !order.PaymentCost.IsZero() {
		fmt.Fprintf(&b, "Payment fee: %s %s\r\n", order.PaymentCost.StringFixed(2), order.Currency)
	}
	fmt.Fprintf(&b, "Total: %s %s\r\n", order.Total.StringFixed(2), order.Currency)

	if order.Remark != "" {
		fmt.Fprintf(&b, "\r\nYour message: %s\r\n", order.Remark)
	}
	return b.String()
}
