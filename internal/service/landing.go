// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"

	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/popup"
	"github.com/olegiv/mentoreu-go/internal/store"
	"github.com/olegiv/mentoreu-go/internal/whatsapp"
)

// Section is a landing section resolved to one language.
type Section struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle,omitempty"`
	Content    string `json:"content,omitempty"`
	ButtonText string `json:"button_text,omitempty"`
	ButtonLink string `json:"button_link,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	Icon       string `json:"icon,omitempty"`
}

// Country is a destination country card.
type Country struct {
	Name string `json:"name"`
	Flag string `json:"flag"`
	Link string `json:"link,omitempty"`
}

// Option is a selectable form choice. Value is the base-language text that
// is stored on the lead; Label is shown to the visitor.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Flag  string `json:"flag,omitempty"`
}

// Field is a lead form field resolved to one language.
type Field struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
}

// Form is the lead form resolved to one language.
type Form struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	SubmitText      string   `json:"submit_text"`
	SuccessMessage  string   `json:"success_message"`
	PrivacyNotice   string   `json:"privacy_notice"`
	Name            Field    `json:"name"`
	Email           Field    `json:"email"`
	Phone           Field    `json:"phone"`
	EducationStatus Field    `json:"education_status"`
	TargetCountry   Field    `json:"target_country"`
	Message         Field    `json:"message"`
	Education       []Option `json:"education_options"`
	Countries       []Option `json:"country_options"`
}

// Contact is the footer contact block.
type Contact struct {
	Description  string `json:"description"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	InstagramURL string `json:"instagram_url,omitempty"`
	LinkedinURL  string `json:"linkedin_url,omitempty"`
	TwitterURL   string `json:"twitter_url,omitempty"`
	FacebookURL  string `json:"facebook_url,omitempty"`
	Copyright    string `json:"copyright"`
	PrivacyURL   string `json:"privacy_url,omitempty"`
	TermsURL     string `json:"terms_url,omitempty"`
}

// WhatsAppButton is the floating chat button; Link is empty when disabled.
type WhatsAppButton struct {
	Link string `json:"link,omitempty"`
	Text string `json:"text,omitempty"`
}

// Landing is everything the landing page renders, in one language.
type Landing struct {
	Lang      locale.Lang    `json:"lang"`
	Hero      *Section       `json:"hero,omitempty"`
	Features  []Section      `json:"features"`
	Steps     []Section      `json:"how_it_works"`
	FAQ       []Section      `json:"faq"`
	Footer    *Section       `json:"footer,omitempty"`
	Countries []Country      `json:"countries"`
	Form      Form           `json:"form"`
	Contact   Contact        `json:"contact"`
	WhatsApp  WhatsAppButton `json:"whatsapp"`
}

// ResolveLanding resolves c into lang. Every text falls back to Turkish when
// the lang variant is empty.
func ResolveLanding(c Content, lang locale.Lang) Landing {
	l := Landing{
		Lang:      lang,
		Features:  []Section{},
		Steps:     []Section{},
		FAQ:       []Section{},
		Countries: make([]Country, 0, len(c.Countries)),
		Form:      ResolveForm(c, lang),
		Contact:   resolveContact(c.Contact, lang),
	}

	for _, s := range c.Sections {
		sec := resolveSection(s, lang)
		switch s.SectionType {
		case store.SectionHero:
			if l.Hero == nil {
				l.Hero = &sec
			}
		case store.SectionFeature:
			l.Features = append(l.Features, sec)
		case store.SectionHowItWorks:
			l.Steps = append(l.Steps, sec)
		case store.SectionFAQ:
			l.FAQ = append(l.FAQ, sec)
		case store.SectionFooter:
			if l.Footer == nil {
				l.Footer = &sec
			}
		}
	}

	for _, country := range c.Countries {
		l.Countries = append(l.Countries, Country{
			Name: country.Name.Resolve(lang),
			Flag: country.FlagEmoji,
			Link: country.LinkURL,
		})
	}

	if link := whatsapp.ButtonLink(c.WhatsApp, lang); link != "" {
		l.WhatsApp = WhatsAppButton{Link: link, Text: c.WhatsApp.ButtonText.Resolve(lang)}
	}
	return l
}

// ResolveForm resolves the lead form settings and catalog into lang.
func ResolveForm(c Content, lang locale.Lang) Form {
	fs := c.Form
	f := Form{
		Title:           fs.SectionTitle.Resolve(lang),
		Description:     fs.SectionDescription.Resolve(lang),
		SubmitText:      fs.SubmitButtonText.Resolve(lang),
		SuccessMessage:  fs.SuccessMessage.Resolve(lang),
		PrivacyNotice:   fs.PrivacyNotice.Resolve(lang),
		Name:            resolveField(fs.Fields.Name, lang),
		Email:           resolveField(fs.Fields.Email, lang),
		Phone:           resolveField(fs.Fields.Phone, lang),
		EducationStatus: resolveField(fs.Fields.EducationStatus, lang),
		TargetCountry:   resolveField(fs.Fields.TargetCountry, lang),
		Message:         resolveField(fs.Fields.Message, lang),
		Education:       make([]Option, 0, len(c.Catalog.Education)),
		Countries:       make([]Option, 0, len(c.Catalog.Countries)),
	}
	for _, o := range c.Catalog.Education {
		f.Education = append(f.Education, Option{Value: o.OptionText.TR, Label: o.OptionText.Resolve(lang)})
	}
	for _, o := range c.Catalog.Countries {
		f.Countries = append(f.Countries, Option{Value: o.Name.TR, Label: o.Name.Resolve(lang), Flag: o.FlagEmoji})
	}
	return f
}

func resolveSection(s store.LandingSection, lang locale.Lang) Section {
	return Section{
		Key:        s.SectionKey,
		Title:      s.Title.Resolve(lang),
		Subtitle:   s.Subtitle.Resolve(lang),
		Content:    s.Content.Resolve(lang),
		ButtonText: s.ButtonText.Resolve(lang),
		ButtonLink: s.ButtonLink,
		ImageURL:   s.ImageURL,
		Icon:       s.Icon,
	}
}

func resolveField(f store.FieldConfig, lang locale.Lang) Field {
	return Field{
		Label:       f.Label.Resolve(lang),
		Placeholder: f.Placeholder.Resolve(lang),
		Required:    f.Required,
	}
}

func resolveContact(c store.ContactInfo, lang locale.Lang) Contact {
	return Contact{
		Description:  c.CompanyDescription.Resolve(lang),
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		InstagramURL: c.InstagramURL,
		LinkedinURL:  c.LinkedinURL,
		TwitterURL:   c.TwitterURL,
		FacebookURL:  c.FacebookURL,
		Copyright:    c.CopyrightText.Resolve(lang),
		PrivacyURL:   c.PrivacyPolicyURL,
		TermsURL:     c.TermsURL,
	}
}

// PopupView is the popup candidate resolved to one language.
type PopupView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	ButtonText string `json:"button_text,omitempty"`
	ButtonLink string `json:"button_link,omitempty"`
	DelayMS    int64  `json:"delay_ms"`
}

// ResolvePopup returns the popup the visitor should see, or nil when there
// is none or it was dismissed.
func ResolvePopup(ctx context.Context, c Content, ds popup.DismissalStore, lang locale.Lang) *PopupView {
	p, delay, ok := popup.Candidate(ctx, c.Popups, ds)
	if !ok {
		return nil
	}
	return &PopupView{
		ID:         p.ID,
		Title:      p.Title.Resolve(lang),
		Content:    p.Content.Resolve(lang),
		ButtonText: p.ButtonText.Resolve(lang),
		ButtonLink: p.ButtonLink,
		DelayMS:    delay.Milliseconds(),
	}
}
