package notifier_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"storefront-service/models"
	"storefront-service/notifier"
	"storefront-service/repository"
	"storefront-service/sender"
)

type mockAdminRepo struct {
	admins []models.AdminUser
	err    error
}

func (m *mockAdminRepo) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	return nil, repository.ErrAdminNotFound
}
func (m *mockAdminRepo) ListAll(_ context.Context) ([]models.AdminUser, error) {
	return m.admins, m.err
}

type recordingEmailSender struct {
	mu  sync.Mutex
	to  []string
	err error
}

func (m *recordingEmailSender) SendEmail(_ context.Context, to, _, _ string) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	return sender.SendResult{}, m.err
}

type recordingSMSSender struct {
	mu  sync.Mutex
	to  []string
	err error
}

func (m *recordingSMSSender) SendSMS(_ context.Context, to, _ string) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	return sender.SendResult{}, m.err
}

func strptr(s string) *string { return &s }

func testEvent() notifier.Event {
	return notifier.Event{
		Type: notifier.EventOrderCreated,
		Order: &models.Order{
			ID:                uuid.New(),
			Status:            models.StatusOutstanding,
			FulfillmentMethod: models.FulfillmentPickup,
			TotalCents:        5760,
		},
		Items:    []models.OrderItem{{SizeName: "Medium tray", Quantity: 2}},
		Customer: &models.Customer{Name: "Dana", Email: "dana@example.com", Phone: "+15551234567"},
		Settings: &models.Settings{Currency: "USD"},
	}
}

func TestNotify_FansOutToCustomerAndAdmins(t *testing.T) {
	admins := &mockAdminRepo{admins: []models.AdminUser{
		{
			Email:                     "owner@example.com",
			NotificationEmail:         strptr("owner@example.com"),
			NotificationPhone:         strptr("+15559990000"),
			EmailNotificationsEnabled: true,
			SMSNotificationsEnabled:   true,
		},
		{
			Email:                     "silent@example.com",
			NotificationEmail:         strptr("silent@example.com"),
			EmailNotificationsEnabled: false,
		},
	}}
	email := &recordingEmailSender{}
	sms := &recordingSMSSender{}
	d := notifier.NewDispatcher(admins, email, sms, zap.NewNop())

	d.Notify(context.Background(), testEvent())
	d.Wait()

	assert.ElementsMatch(t, []string{"dana@example.com", "owner@example.com"}, email.to,
		"opted-out admin receives nothing")
	assert.ElementsMatch(t, []string{"+15551234567", "+15559990000"}, sms.to)
}

func TestNotify_SenderFailureIsSwallowed(t *testing.T) {
	admins := &mockAdminRepo{}
	email := &recordingEmailSender{err: errors.New("smtp unreachable")}
	sms := &recordingSMSSender{}
	d := notifier.NewDispatcher(admins, email, sms, zap.NewNop())

	// Must not panic or block; failures only get logged.
	d.Notify(context.Background(), testEvent())
	d.Wait()

	assert.Len(t, email.to, 1)
}

func TestNotify_AdminLookupFailureStillNotifiesCustomer(t *testing.T) {
	admins := &mockAdminRepo{err: errors.New("db down")}
	email := &recordingEmailSender{}
	sms := &recordingSMSSender{}
	d := notifier.NewDispatcher(admins, email, sms, zap.NewNop())

	d.Notify(context.Background(), testEvent())
	d.Wait()

	assert.Equal(t, []string{"dana@example.com"}, email.to)
}

func TestNotify_NilSendersAreSkipped(t *testing.T) {
	d := notifier.NewDispatcher(&mockAdminRepo{}, nil, nil, zap.NewNop())

	d.Notify(context.Background(), testEvent())
	d.Wait()
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "57.60 USD", notifier.FormatCents(5760, "USD"))
	assert.Equal(t, "0.05 USD", notifier.FormatCents(5, "USD"))
	assert.Equal(t, "-1.00 EUR", notifier.FormatCents(-100, "EUR"))
}
