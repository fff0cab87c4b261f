// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n holds the fixed interface strings of the public site (navigation,
// form states, error banners). Admin-managed content is translated in the
// database instead.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/mentoreu-go/internal/locale"
)

//go:embed locales
var localesFS embed.FS

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[locale.Lang]map[string]string
	logger       *slog.Logger
}

// catalog is the global catalog instance.
var catalog *Catalog

// Init loads every supported language from the embedded message files.
func Init(logger *slog.Logger) error {
	c := &Catalog{
		translations: make(map[locale.Lang]map[string]string),
		logger:       logger,
	}

	for _, lang := range locale.All() {
		if err := c.loadLanguage(lang); err != nil {
			return fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}

	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", locale.All())
	}
	return nil
}

func (c *Catalog) loadLanguage(lang locale.Lang) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgFile.Messages))
	}
	return nil
}

// T translates key into lang, falling back to Turkish and then to the key
// itself. Optional args are applied with fmt.Sprintf.
func T(lang locale.Lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	translation, ok := catalog.translations[lang][key]
	if !ok && lang != locale.Base {
		translation, ok = catalog.translations[locale.Base][key]
		if ok && catalog.logger != nil {
			catalog.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
	}
	catalog.mu.RUnlock()

	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// Func returns T bound to lang, for use as a template function.
func Func(lang locale.Lang) func(key string, args ...any) string {
	return func(key string, args ...any) string {
		return T(lang, key, args...)
	}
}

// TranslationCount returns the number of translations loaded for a language.
func TranslationCount(lang locale.Lang) int {
	if catalog == nil {
		return 0
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.translations[lang])
}

// Keys returns the message ids loaded for lang.
func Keys(lang locale.Lang) []string {
	if catalog == nil {
		return nil
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	keys := make([]string, 0, len(catalog.translations[lang]))
	for k := range catalog.translations[lang] {
		keys = append(keys, k)
	}
	return keys
}
