// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"
	// RouteParamName is the job name parameter pattern.
	RouteParamName = "/{name}"

	// RouteLeads is the public lead form target and the admin leads list.
	RouteLeads = "/leads"
	// RouteBlog is the blog route.
	RouteBlog = "/blog"
	// RoutePopupDismiss is the popup dismissal route.
	RoutePopupDismiss = "/popups/{id}/dismiss"

	// RouteAPI is the prefix of the public JSON API.
	RouteAPI = "/api/v1"
	// RouteLanding is the resolved landing content.
	RouteLanding = "/landing"
	// RouteForm is the lead form configuration.
	RouteForm = "/form"
	// RoutePopup is the popup candidate.
	RoutePopup = "/popup"

	// RouteAdmin is the prefix of the admin JSON API.
	RouteAdmin = "/admin"
	// RouteLogin is the admin login route.
	RouteLogin = "/login"
	// RouteLogout is the admin logout route.
	RouteLogout = "/logout"
	// RoutePassword is the admin password change route.
	RoutePassword = "/password"
	// RouteMe returns the logged-in admin.
	RouteMe = "/me"
	// RouteStats is the dashboard statistics route.
	RouteStats = "/stats"
	// RouteExport is the CSV export suffix.
	RouteExport = "/export"
	// RouteSuffixContacted is the contacted flag suffix.
	RouteSuffixContacted = "/contacted"
	// RouteSuffixRun is the manual job trigger suffix.
	RouteSuffixRun = "/run"

	// RouteSections is the landing sections admin route.
	RouteSections = "/sections"
	// RouteCountries is the education countries admin route.
	RouteCountries = "/countries"
	// RoutePosts is the blog posts admin route.
	RoutePosts = "/posts"
	// RoutePopups is the popups admin route.
	RoutePopups = "/popups"
	// RouteEducationOptions is the education options admin route.
	RouteEducationOptions = "/form/education-options"
	// RouteCountryOptions is the country options admin route.
	RouteCountryOptions = "/form/country-options"
	// RouteMedia is the media upload route.
	RouteMedia = "/media"
	// RouteEvents is the event log route.
	RouteEvents = "/events"
	// RouteJobs is the scheduler jobs route.
	RouteJobs = "/jobs"
	// RouteCache is the cache management route.
	RouteCache = "/cache"

	// RouteSettingsContact is the contact info settings route.
	RouteSettingsContact = "/settings/contact"
	// RouteSettingsForm is the form settings route.
	RouteSettingsForm = "/settings/form"
	// RouteSettingsEmail is the email settings route.
	RouteSettingsEmail = "/settings/email"
	// RouteSettingsWhatsApp is the WhatsApp settings route.
	RouteSettingsWhatsApp = "/settings/whatsapp"
)

// URL parameter names.
const (
	paramID   = "id"
	paramSlug = "slug"
	paramName = "name"
)
