package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"storefront-service/cache"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/services"
)

type recordingSizeRepo struct {
	mockSizeRepo
	listed  []models.ProductSize
	listErr error
	updates map[string]interface{}
}

func (m *recordingSizeRepo) ListActive(_ context.Context) ([]models.ProductSize, error) {
	return m.listed, m.listErr
}
func (m *recordingSizeRepo) UpdateFields(_ context.Context, id uuid.UUID, updates map[string]interface{}) (*models.ProductSize, error) {
	if _, ok := m.sizes[id]; !ok {
		return nil, repository.ErrSizeNotFound
	}
	m.updates = updates
	return m.sizes[id], nil
}

type recordingSettingsRepo struct {
	mockSettingsRepo
	updates map[string]interface{}
}

func (m *recordingSettingsRepo) Update(_ context.Context, updates map[string]interface{}) (*models.Settings, error) {
	m.updates = updates
	return m.settings, nil
}

func newCatalogFixture() (*recordingSizeRepo, *recordingSettingsRepo, *services.CatalogService) {
	sizes := &recordingSizeRepo{mockSizeRepo: mockSizeRepo{sizes: map[uuid.UUID]*models.ProductSize{}}}
	settings := &recordingSettingsRepo{mockSettingsRepo: mockSettingsRepo{settings: &models.Settings{ID: 1, Currency: "USD"}}}
	// No Redis behind the cache; every read is a miss.
	svc := services.NewCatalogService(sizes, settings, cache.NewCatalogCache(nil, 0, zap.NewNop()), zap.NewNop())
	return sizes, settings, svc
}

func TestListCatalog(t *testing.T) {
	sizes, _, svc := newCatalogFixture()
	sizes.listed = []models.ProductSize{{Name: "Small tray", PriceCents: 1800}}

	payload, svcErr := svc.ListCatalog(context.Background())

	assert.Nil(t, svcErr)
	assert.Equal(t, "USD", payload.Currency)
	assert.Len(t, payload.Sizes, 1)
}

func TestUpdateSize_FiltersUnknownFields(t *testing.T) {
	sizes, _, svc := newCatalogFixture()
	id := uuid.New()
	sizes.sizes[id] = &models.ProductSize{ID: id}

	_, svcErr := svc.UpdateSize(context.Background(), id, map[string]interface{}{
		"price_cents":   float64(2500),
		"available_qty": float64(12),
		"id":            "11111111-1111-1111-1111-111111111111",
		"created_at":    "2020-01-01",
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, map[string]interface{}{
		"price_cents":   float64(2500),
		"available_qty": float64(12),
	}, sizes.updates, "only allowlisted columns reach the repository")
}

func TestUpdateSize_NoValidFields(t *testing.T) {
	sizes, _, svc := newCatalogFixture()
	id := uuid.New()
	sizes.sizes[id] = &models.ProductSize{ID: id}

	_, svcErr := svc.UpdateSize(context.Background(), id, map[string]interface{}{"id": "x"})

	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
}

func TestUpdateSize_NotFound(t *testing.T) {
	_, _, svc := newCatalogFixture()

	_, svcErr := svc.UpdateSize(context.Background(), uuid.New(), map[string]interface{}{"price_cents": 100})

	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}

func TestUpdateSettings_RejectsBadDiscountType(t *testing.T) {
	_, _, svc := newCatalogFixture()

	_, svcErr := svc.UpdateSettings(context.Background(), map[string]interface{}{"pickup_discount_type": "bogo"})

	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
}

func TestUpdateSettings_Allowlist(t *testing.T) {
	_, settings, svc := newCatalogFixture()

	_, svcErr := svc.UpdateSettings(context.Background(), map[string]interface{}{
		"delivery_fee_cents": float64(900),
		"venmo_address":      "@new-handle",
		"updated_at":         "2020-01-01",
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, map[string]interface{}{
		"delivery_fee_cents": float64(900),
		"venmo_address":      "@new-handle",
	}, settings.updates)
}
