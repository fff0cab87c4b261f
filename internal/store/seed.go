// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/mentoreu-go/internal/auth"
	"github.com/olegiv/mentoreu-go/internal/locale"
)

// SeedConfig holds the first admin's credentials.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// Seed creates the first admin and the default lead form configuration.
// Existing rows are never overwritten.
func Seed(ctx context.Context, db *sql.DB, cfg SeedConfig) error {
	queries := New(db)
	now := time.Now().UTC()

	if err := seedAdmin(ctx, queries, cfg, now); err != nil {
		return err
	}

	if err := seedFormSettings(ctx, queries, now); err != nil {
		return err
	}

	if err := seedOptions(ctx, queries, now); err != nil {
		return err
	}

	return nil
}

func seedAdmin(ctx context.Context, queries *Queries, cfg SeedConfig, now time.Time) error {
	_, err := queries.GetUserByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Name:         "Administrator",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}

// DefaultFormFields mirrors the labels shown before an admin edits the form.
func DefaultFormFields() FormFields {
	return FormFields{
		Name: FieldConfig{
			Label:       locale.Text{TR: "Ad Soyad", EN: "Full Name", DE: "Vor- und Nachname"},
			Placeholder: locale.Text{TR: "Adınız ve soyadınız", EN: "Your full name", DE: "Ihr vollständiger Name"},
			Required:    true,
		},
		Email: FieldConfig{
			Label:       locale.Text{TR: "E-posta", EN: "Email", DE: "E-Mail"},
			Placeholder: locale.Text{TR: "ornek@email.com", EN: "example@email.com", DE: "beispiel@email.com"},
			Required:    true,
		},
		Phone: FieldConfig{
			Label:       locale.Text{TR: "Telefon", EN: "Phone", DE: "Telefon"},
			Placeholder: locale.Text{TR: "+90 555 123 4567"},
			Required:    true,
		},
		EducationStatus: FieldConfig{
			Label:       locale.Text{TR: "Eğitim Durumu", EN: "Education Status", DE: "Bildungsstand"},
			Placeholder: locale.Text{TR: "Seçiniz", EN: "Please select", DE: "Bitte wählen"},
			Required:    true,
		},
		TargetCountry: FieldConfig{
			Label:    locale.Text{TR: "Hedef Ülke", EN: "Target Country", DE: "Zielland"},
			Required: true,
		},
		Message: FieldConfig{
			Label: locale.Text{TR: "Mesaj", EN: "Message", DE: "Nachricht"},
			Placeholder: locale.Text{
				TR: "Bizimle paylaşmak istediğiniz ek bilgiler...",
				EN: "Anything else you would like to share...",
				DE: "Weitere Informationen, die Sie mit uns teilen möchten...",
			},
		},
	}
}

func seedFormSettings(ctx context.Context, queries *Queries, now time.Time) error {
	existing, err := queries.GetFormSettings(ctx)
	if err != nil {
		return fmt.Errorf("loading form settings: %w", err)
	}
	if !existing.UpdatedAt.IsZero() {
		return nil
	}

	err = queries.SaveFormSettings(ctx, FormSettings{
		SectionTitle: locale.Text{
			TR: "Ücretsiz Ön Değerlendirme İçin Başvurun",
			EN: "Apply for a Free Assessment",
			DE: "Jetzt kostenlose Erstberatung anfragen",
		},
		SectionDescription: locale.Text{
			TR: "Size özel danışmanlık hizmeti için formu doldurun",
			EN: "Fill in the form for personal guidance",
			DE: "Füllen Sie das Formular für eine persönliche Beratung aus",
		},
		Fields: DefaultFormFields(),
		SubmitButtonText: locale.Text{
			TR: "Başvurumu Gönder",
			EN: "Send Application",
			DE: "Anfrage senden",
		},
		SuccessMessage: locale.Text{
			TR: "En kısa sürede sizinle iletişime geçeceğiz.",
			EN: "We will get in touch with you shortly.",
			DE: "Wir melden uns in Kürze bei Ihnen.",
		},
		PrivacyNotice: locale.Text{
			TR: "* Bilgileriniz gizli tutulacaktır",
			EN: "* Your information is kept confidential",
			DE: "* Ihre Daten werden vertraulich behandelt",
		},
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("seeding form settings: %w", err)
	}
	return nil
}

func seedOptions(ctx context.Context, queries *Queries, now time.Time) error {
	education, err := queries.ListEducationOptions(ctx, false)
	if err != nil {
		return fmt.Errorf("listing education options: %w", err)
	}
	if len(education) == 0 {
		defaults := []locale.Text{
			{TR: "Lise", EN: "High School", DE: "Gymnasium"},
			{TR: "Üniversite Son Sınıf", EN: "University Final Year", DE: "Letztes Studienjahr"},
		}
		for i, text := range defaults {
			if _, err := queries.CreateEducationOption(ctx, UpsertEducationOptionParams{
				ID:          uuid.NewString(),
				OptionText:  text,
				OrderNumber: int64(i + 1),
				IsActive:    true,
				Now:         now,
			}); err != nil {
				return fmt.Errorf("seeding education option: %w", err)
			}
		}
	}

	countries, err := queries.ListCountryOptions(ctx, false)
	if err != nil {
		return fmt.Errorf("listing country options: %w", err)
	}
	if len(countries) > 0 {
		return nil
	}

	defaults := []struct {
		name locale.Text
		flag string
	}{
		{locale.Text{TR: "Almanya", EN: "Germany", DE: "Deutschland"}, "🇩🇪"},
		{locale.Text{TR: "İtalya", EN: "Italy", DE: "Italien"}, "🇮🇹"},
		{locale.Text{TR: "Hollanda", EN: "Netherlands", DE: "Niederlande"}, "🇳🇱"},
		{locale.Text{TR: "Fransa", EN: "France", DE: "Frankreich"}, "🇫🇷"},
		{locale.Text{TR: "İspanya", EN: "Spain", DE: "Spanien"}, "🇪🇸"},
		{locale.Text{TR: "Belçika", EN: "Belgium", DE: "Belgien"}, "🇧🇪"},
		{locale.Text{TR: "Avusturya", EN: "Austria", DE: "Österreich"}, "🇦🇹"},
		{locale.Text{TR: "İsveç", EN: "Sweden", DE: "Schweden"}, "🇸🇪"},
	}
	for i, c := range defaults {
		if _, err := queries.CreateCountryOption(ctx, UpsertCountryOptionParams{
			ID:          uuid.NewString(),
			Name:        c.name,
			FlagEmoji:   c.flag,
			OrderNumber: int64(i + 1),
			IsActive:    true,
			Now:         now,
		}); err != nil {
			return fmt.Errorf("seeding country option: %w", err)
		}
	}

	return nil
}
