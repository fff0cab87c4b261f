// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lead

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/store"
)

// Catalog holds the admin-managed choices offered by the lead form.
type Catalog struct {
	Education []store.EducationOption `json:"education_options"`
	Countries []store.CountryOption   `json:"country_options"`
}

// CatalogSource reads the option tables. *store.Queries implements it.
type CatalogSource interface {
	ListEducationOptions(ctx context.Context, activeOnly bool) ([]store.EducationOption, error)
	ListCountryOptions(ctx context.Context, activeOnly bool) ([]store.CountryOption, error)
}

// LoadCatalog fetches the active education and country options concurrently.
func LoadCatalog(ctx context.Context, src CatalogSource) (Catalog, error) {
	var c Catalog

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opts, err := src.ListEducationOptions(gctx, true)
		if err != nil {
			return fmt.Errorf("loading education options: %w", err)
		}
		c.Education = opts
		return nil
	})
	g.Go(func() error {
		opts, err := src.ListCountryOptions(gctx, true)
		if err != nil {
			return fmt.Errorf("loading country options: %w", err)
		}
		c.Countries = opts
		return nil
	})

	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// sameText compares v with every variant of t, ignoring case.
func sameText(t locale.Text, v string) bool {
	folder := cases.Fold()
	fv := folder.String(v)
	for _, lang := range locale.All() {
		if s := t.In(lang); s != "" && folder.String(s) == fv {
			return true
		}
	}
	return false
}

// CanonicalEducation maps a submitted education status to the option's
// base-language text. Values not in the catalog are returned unchanged.
func (c Catalog) CanonicalEducation(v string) string {
	for _, o := range c.Education {
		if sameText(o.OptionText, v) {
			return o.OptionText.TR
		}
	}
	return v
}

// CanonicalCountry maps a submitted country to its base-language name.
// Values not in the catalog are returned unchanged.
func (c Catalog) CanonicalCountry(v string) string {
	for _, o := range c.Countries {
		if sameText(o.Name, v) {
			return o.Name.TR
		}
	}
	return v
}

// Canonical rewrites the form's option fields to base-language values.
func (c Catalog) Canonical(f FormState) FormState {
	f.EducationStatus = c.CanonicalEducation(f.EducationStatus)
	countries := make([]string, 0, len(f.TargetCountries))
	for _, name := range f.TargetCountries {
		name = c.CanonicalCountry(name)
		if !slices.Contains(countries, name) {
			countries = append(countries, name)
		}
	}
	f.TargetCountries = countries
	return f
}
