// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip maps visitor addresses to countries using a MaxMind
// GeoLite2-Country database. Without a database every lookup returns "".
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Local is returned for private and loopback addresses.
const Local = "LOCAL"

// Lookup resolves IP addresses to ISO country codes. It is safe for
// concurrent use and can reload the database in place.
type Lookup struct {
	mu        sync.RWMutex
	db        *maxminddb.Reader
	dbPath    string
	dbModTime time.Time
}

type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Open loads the database at dbPath. An empty path yields a disabled Lookup.
func Open(dbPath string) (*Lookup, error) {
	g := &Lookup{dbPath: dbPath}
	if dbPath == "" {
		return g, nil
	}
	if err := g.load(); err != nil {
		return g, err
	}
	return g, nil
}

// Reload reopens the database if the file changed since it was loaded.
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dbPath == "" {
		return nil
	}
	return g.loadLocked()
}

func (g *Lookup) load() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loadLocked()
}

func (g *Lookup) loadLocked() error {
	info, err := os.Stat(g.dbPath)
	if err != nil {
		return fmt.Errorf("geoip database: %w", err)
	}
	if g.db != nil && info.ModTime().Equal(g.dbModTime) {
		return nil
	}

	db, err := maxminddb.Open(g.dbPath)
	if err != nil {
		return fmt.Errorf("opening geoip database: %w", err)
	}
	if g.db != nil {
		_ = g.db.Close()
	}
	g.db = db
	g.dbModTime = info.ModTime()
	return nil
}

// Country returns the ISO code for ip, Local for private addresses, or ""
// when unknown.
func (g *Lookup) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsLinkLocalUnicast() {
		return Local
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.db == nil {
		return ""
	}

	var record geoRecord
	if err := g.db.Lookup(parsed, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// Enabled reports whether a database is loaded.
func (g *Lookup) Enabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.db != nil
}

// Close releases the database.
func (g *Lookup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}

// CountryName returns the Turkish name of an ISO country code, falling back
// to the code itself.
func CountryName(code string) string {
	switch code {
	case "":
		return ""
	case Local:
		return "Yerel Ağ"
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	if name := display.Turkish.Regions().Name(region); name != "" {
		return name
	}
	return code
}
