package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront-service/cache"
	"storefront-service/models"
	"storefront-service/repository"
)

// sizeUpdateFields is the allowlist of ProductSize columns an admin edit
// may touch. Anything else in the request body is dropped.
var sizeUpdateFields = map[string]bool{
	"name":          true,
	"price_cents":   true,
	"available_qty": true,
	"is_active":     true,
	"unit_label":    true,
	"sort_order":    true,
}

var settingsUpdateFields = map[string]bool{
	"pickup_discount_enabled": true,
	"pickup_discount_type":    true,
	"pickup_discount_value":   true,
	"delivery_fee_cents":      true,
	"currency":                true,
	"venmo_address":           true,
}

// CatalogService serves the public size listing and the admin edits to
// sizes and store settings.
type CatalogService struct {
	sizes    repository.SizeRepository
	settings repository.SettingsRepository
	cache    *cache.CatalogCache
	logger   *zap.Logger
}

func NewCatalogService(sizes repository.SizeRepository, settings repository.SettingsRepository, catalogCache *cache.CatalogCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{sizes: sizes, settings: settings, cache: catalogCache, logger: logger}
}

// ListCatalog returns active sizes plus the store currency, cache first.
func (s *CatalogService) ListCatalog(ctx context.Context) (*cache.CatalogPayload, *ServiceError) {
	if payload, ok := s.cache.Get(ctx); ok {
		return payload, nil
	}

	sizes, err := s.sizes.ListActive(ctx)
	if err != nil {
		s.logger.Error("size listing failed", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to load sizes")
	}

	currency := "USD"
	if settings, err := s.settings.Get(ctx); err == nil {
		currency = settings.Currency
	}

	payload := &cache.CatalogPayload{Sizes: sizes, Currency: currency}
	s.cache.Set(ctx, payload)
	return payload, nil
}

// UpdateSize applies an allowlisted partial edit to one size and drops
// the stale catalog cache.
func (s *CatalogService) UpdateSize(ctx context.Context, id uuid.UUID, body map[string]interface{}) (*models.ProductSize, *ServiceError) {
	updates := filterFields(body, sizeUpdateFields)
	if len(updates) == 0 {
		return nil, newServiceError(http.StatusBadRequest, "No valid fields to update")
	}

	size, err := s.sizes.UpdateFields(ctx, id, updates)
	if err != nil {
		if errors.Is(err, repository.ErrSizeNotFound) {
			return nil, newServiceError(http.StatusNotFound, "Size not found")
		}
		s.logger.Error("size update failed", zap.String("size_id", id.String()), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to update size")
	}

	s.cache.Invalidate(ctx)
	return size, nil
}

// UpdateSettings applies an allowlisted partial edit to the store
// settings singleton.
func (s *CatalogService) UpdateSettings(ctx context.Context, body map[string]interface{}) (*models.Settings, *ServiceError) {
	updates := filterFields(body, settingsUpdateFields)
	if len(updates) == 0 {
		return nil, newServiceError(http.StatusBadRequest, "No valid fields to update")
	}

	if t, ok := updates["pickup_discount_type"].(string); ok {
		if t != models.DiscountFixed && t != models.DiscountPercent {
			return nil, newServiceError(http.StatusBadRequest, "Invalid pickup discount type")
		}
	}

	settings, err := s.settings.Update(ctx, updates)
	if err != nil {
		s.logger.Error("settings update failed", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to update settings")
	}

	s.cache.Invalidate(ctx)
	return settings, nil
}

func filterFields(body map[string]interface{}, allowed map[string]bool) map[string]interface{} {
	updates := make(map[string]interface{}, len(body))
	for k, v := range body {
		if allowed[k] {
			updates[k] = v
		}
	}
	return updates
}
