// Package registry manages the durable catalog of disclosure sources
// that ingestion draws from.
package registry

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/verdantlabs/carbonpeer/acquire"
	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/store"
)

type Registry struct {
	store store.Store
}

func New(st store.Store) *Registry {
	return &Registry{store: st}
}

// Register validates and persists a source pointer. Registering the
// same (tenant, company, category, location) again overwrites the title
// and keeps the original identifier.
func (r *Registry) Register(ctx context.Context, src model.DisclosureSource) (model.DisclosureSource, error) {
	if src.TenantID == "" {
		return model.DisclosureSource{}, &model.ValidationError{Field: "tenant_id", Reason: "required"}
	}
	if src.CompanyID == "" {
		return model.DisclosureSource{}, &model.ValidationError{Field: "company_id", Reason: "required"}
	}
	if src.Category == "" {
		return model.DisclosureSource{}, &model.ValidationError{Field: "category", Reason: "required"}
	}
	if err := validateLocation(src.Location); err != nil {
		return model.DisclosureSource{}, err
	}

	if src.Title == "" && acquire.IsSeedLocation(src.Location) {
		src.Title = acquire.SeedTitle(src.Location)
	}
	if src.ID == "" {
		src.ID = uuid.NewString()
	}
	if src.CreatedAt.IsZero() {
		src.CreatedAt = time.Now().UTC()
	}

	if err := r.store.UpsertSource(ctx, src); err != nil {
		return model.DisclosureSource{}, eris.Wrap(err, "registry: persist source")
	}

	zap.L().Info("registered disclosure source",
		zap.String("tenant_id", src.TenantID),
		zap.String("company_id", src.CompanyID),
		zap.String("category", src.Category),
		zap.String("location", src.Location))
	return src, nil
}

// List returns every registered source for the tenant.
func (r *Registry) List(ctx context.Context, tenantID string) ([]model.DisclosureSource, error) {
	if tenantID == "" {
		return nil, &model.ValidationError{Field: "tenant_id", Reason: "required"}
	}
	sources, err := r.store.ListSources(ctx, tenantID)
	if err != nil {
		return nil, eris.Wrap(err, "registry: list sources")
	}
	return sources, nil
}

func validateLocation(location string) error {
	if location == "" {
		return &model.ValidationError{Field: "location", Reason: "required"}
	}
	if strings.HasPrefix(location, model.SeedScheme) {
		if !acquire.IsSeedLocation(location) {
			return &model.ValidationError{Field: "location", Reason: "unknown seed location"}
		}
		return nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return &model.ValidationError{Field: "location", Reason: "not a valid URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &model.ValidationError{Field: "location", Reason: "scheme must be http or https"}
	}
	if !strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		return &model.ValidationError{Field: "location", Reason: "must point at a .pdf document"}
	}
	return nil
}
