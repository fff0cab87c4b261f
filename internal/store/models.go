// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"

	"github.com/olegiv/mentoreu-go/internal/locale"
)

type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Name         string       `json:"name"`
	LastLoginAt  sql.NullTime `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

type Lead struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	EducationStatus string    `json:"education_status"`
	TargetCountry   []string  `json:"target_country"`
	Message         string    `json:"message"`
	Language        string    `json:"language"`
	IPAddress       string    `json:"ip_address"`
	UserAgent       string    `json:"user_agent"`
	Device          string    `json:"device"`
	CountryCode     string    `json:"country_code"`
	Contacted       bool      `json:"contacted"`
	CreatedAt       time.Time `json:"created_at"`
}

// Section types of landing_sections.
const (
	SectionHero       = "hero"
	SectionFeature    = "feature"
	SectionHowItWorks = "how_it_works"
	SectionFAQ        = "faq"
	SectionFooter     = "footer"
)

type LandingSection struct {
	ID          string      `json:"id"`
	SectionKey  string      `json:"section_key"`
	SectionType string      `json:"section_type"`
	Title       locale.Text `json:"title"`
	Subtitle    locale.Text `json:"subtitle"`
	Content     locale.Text `json:"content"`
	ButtonText  locale.Text `json:"button_text"`
	ImageURL    string      `json:"image_url"`
	ButtonLink  string      `json:"button_link"`
	Icon        string      `json:"icon"`
	OrderNumber int64       `json:"order_number"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type EducationCountry struct {
	ID          string      `json:"id"`
	Name        locale.Text `json:"name"`
	FlagEmoji   string      `json:"flag_emoji"`
	LinkURL     string      `json:"link_url"`
	OrderNumber int64       `json:"order_number"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type ContactInfo struct {
	CompanyDescription locale.Text `json:"company_description"`
	Email              string      `json:"email"`
	Phone              string      `json:"phone"`
	Address            string      `json:"address"`
	InstagramURL       string      `json:"instagram_url"`
	LinkedinURL        string      `json:"linkedin_url"`
	TwitterURL         string      `json:"twitter_url"`
	FacebookURL        string      `json:"facebook_url"`
	CopyrightText      locale.Text `json:"copyright_text"`
	PrivacyPolicyURL   string      `json:"privacy_policy_url"`
	TermsURL           string      `json:"terms_url"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Blog post statuses.
const (
	PostDraft     = "draft"
	PostPublished = "published"
)

type BlogPost struct {
	ID              string       `json:"id"`
	Title           locale.Text  `json:"title"`
	Slug            locale.Text  `json:"slug"`
	Excerpt         locale.Text  `json:"excerpt"`
	Content         locale.Text  `json:"content"`
	FeaturedImage   string       `json:"featured_image"`
	Author          string       `json:"author"`
	Category        string       `json:"category"`
	Tags            []string     `json:"tags"`
	Status          string       `json:"status"`
	ReadTime        string       `json:"read_time"`
	MetaTitle       string       `json:"meta_title"`
	MetaDescription string       `json:"meta_description"`
	ScheduledAt     sql.NullTime `json:"-"`
	PublishedAt     sql.NullTime `json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type Popup struct {
	ID         string      `json:"id"`
	Title      locale.Text `json:"title"`
	Content    locale.Text `json:"content"`
	ButtonText locale.Text `json:"button_text"`
	ButtonLink string      `json:"button_link"`
	ShowDelay  int64       `json:"show_delay"`
	IsActive   bool        `json:"is_active"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// FieldConfig describes how one lead form field is presented.
type FieldConfig struct {
	Label       locale.Text `json:"label"`
	Placeholder locale.Text `json:"placeholder"`
	Required    bool        `json:"required"`
}

// FormFields is the field_config document of form_settings.
type FormFields struct {
	Name            FieldConfig `json:"name"`
	Email           FieldConfig `json:"email"`
	Phone           FieldConfig `json:"phone"`
	EducationStatus FieldConfig `json:"education_status"`
	TargetCountry   FieldConfig `json:"target_country"`
	Message         FieldConfig `json:"message"`
}

type FormSettings struct {
	SectionTitle       locale.Text `json:"section_title"`
	SectionDescription locale.Text `json:"section_description"`
	Fields             FormFields  `json:"field_config"`
	SubmitButtonText   locale.Text `json:"submit_button_text"`
	SuccessMessage     locale.Text `json:"success_message"`
	PrivacyNotice      locale.Text `json:"privacy_notice"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

type EducationOption struct {
	ID          string      `json:"id"`
	OptionText  locale.Text `json:"option_text"`
	OrderNumber int64       `json:"order_number"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type CountryOption struct {
	ID          string      `json:"id"`
	Name        locale.Text `json:"name"`
	FlagEmoji   string      `json:"flag_emoji"`
	OrderNumber int64       `json:"order_number"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type EmailSettings struct {
	ServiceID                  string    `json:"service_id"`
	PublicKey                  string    `json:"public_key"`
	AdminNotificationEnabled   bool      `json:"admin_notification_enabled"`
	AdminTemplateID            string    `json:"admin_template_id"`
	AdminEmails                []string  `json:"admin_emails"`
	StudentAutoresponseEnabled bool      `json:"student_autoresponse_enabled"`
	StudentTemplateID          string    `json:"student_template_id"`
	StudentSubject             string    `json:"student_subject"`
	ReplyToEmail               string    `json:"reply_to_email"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

type WhatsAppSettings struct {
	PhoneNumber    string      `json:"phone_number"`
	DefaultMessage locale.Text `json:"default_message"`
	ButtonText     locale.Text `json:"button_text"`
	IsEnabled      bool        `json:"is_enabled"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
