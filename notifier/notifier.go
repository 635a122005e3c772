package notifier

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/sender"
)

const (
	EventOrderCreated     = "order_created"
	EventPaymentConfirmed = "payment_confirmed"
	EventPaymentReminder  = "payment_reminder"
)

// Event carries everything a message template needs. Totals and snapshots
// come from the persisted order, never recomputed.
type Event struct {
	Type     string
	Order    *models.Order
	Items    []models.OrderItem
	Customer *models.Customer
	Settings *models.Settings
}

// Notifier is fire-and-forget: Notify returns immediately and never
// surfaces a failure to the caller. Order durability outranks message
// delivery.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Dispatcher fans an event out to the customer and to every admin with
// notifications enabled. Each recipient is sent to independently; one
// failing recipient never blocks the others.
type Dispatcher struct {
	admins repository.AdminRepository
	email  sender.EmailSender
	sms    sender.SMSSender
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(admins repository.AdminRepository, email sender.EmailSender, sms sender.SMSSender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{admins: admins, email: email, sms: sms, logger: logger}
}

func (d *Dispatcher) Notify(_ context.Context, event Event) {
	// The request context is done once the response is written; sends run
	// on their own deadline.
	subject, emailBody, smsBody := renderMessages(event)

	if event.Customer != nil {
		if event.Customer.Email != "" {
			d.dispatchEmail(event.Type, event.Customer.Email, subject, emailBody)
		}
		if event.Customer.Phone != "" {
			d.dispatchSMS(event.Type, event.Customer.Phone, smsBody)
		}
	}

	admins, err := d.admins.ListAll(context.Background())
	if err != nil {
		d.logger.Warn("admin lookup for notification failed",
			zap.String("event", event.Type), zap.Error(err))
		return
	}
	for _, admin := range admins {
		if admin.EmailNotificationsEnabled && admin.NotificationEmail != nil && *admin.NotificationEmail != "" {
			d.dispatchEmail(event.Type, *admin.NotificationEmail, subject, emailBody)
		}
		if admin.SMSNotificationsEnabled && admin.NotificationPhone != nil && *admin.NotificationPhone != "" {
			d.dispatchSMS(event.Type, *admin.NotificationPhone, smsBody)
		}
	}
}

func (d *Dispatcher) dispatchEmail(eventType, to, subject, body string) {
	if d.email == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := d.email.SendEmail(ctx, to, subject, body); err != nil {
			d.logger.Warn("notification email failed",
				zap.String("event", eventType),
				zap.String("to", to),
				zap.Error(err))
		}
	}()
}

func (d *Dispatcher) dispatchSMS(eventType, to, body string) {
	if d.sms == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := d.sms.SendSMS(ctx, to, body); err != nil {
			d.logger.Warn("notification sms failed",
				zap.String("event", eventType),
				zap.String("to", to),
				zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight sends finish. Used at shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func renderMessages(event Event) (subject, emailBody, smsBody string) {
	name := ""
	if event.Customer != nil {
		name = event.Customer.Name
	}
	currency := "USD"
	if event.Settings != nil && event.Settings.Currency != "" {
		currency = event.Settings.Currency
	}

	var lines []string
	for _, item := range event.Items {
		lines = append(lines, fmt.Sprintf("%s x %d", item.SizeName, item.Quantity))
	}
	summary := strings.Join(lines, ", ")
	total := FormatCents(event.Order.TotalCents, currency)

	switch event.Type {
	case EventPaymentConfirmed:
		subject = "Your order is confirmed"
		emailBody = fmt.Sprintf("<p>Thank you, %s.</p><p>Order %s: %s (%s)</p><p>Total: %s</p>",
			name, event.Order.OrderNumber(), summary, event.Order.FulfillmentMethod, total)
		smsBody = fmt.Sprintf("Order %s confirmed. %s. Status: %s.",
			event.Order.OrderNumber(), summary, event.Order.Status)
	case EventPaymentReminder:
		handle := ""
		if event.Settings != nil && event.Settings.VenmoAddress != nil {
			handle = *event.Settings.VenmoAddress
		}
		subject = "Payment reminder for your order"
		emailBody = fmt.Sprintf("<p>Hi %s,</p><p>Order %s (%s) is awaiting payment of %s via Venmo @%s.</p>",
			name, event.Order.OrderNumber(), summary, total, handle)
		smsBody = fmt.Sprintf("Reminder: order %s awaits %s via Venmo @%s.",
			event.Order.OrderNumber(), total, handle)
	default:
		subject = "Order received"
		emailBody = fmt.Sprintf("<p>Thank you, %s.</p><p>Order %s: %s (%s)</p><p>Total: %s</p>",
			name, event.Order.OrderNumber(), summary, event.Order.FulfillmentMethod, total)
		smsBody = fmt.Sprintf("Order %s received. %s. Total: %s.",
			event.Order.OrderNumber(), summary, total)
	}
	return subject, emailBody, smsBody
}

// FormatCents renders integer minor units for message bodies.
func FormatCents(cents int, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
}
