// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/olegiv/mentoreu-go/internal/cache"
	"github.com/olegiv/mentoreu-go/internal/config"
	"github.com/olegiv/mentoreu-go/internal/geoip"
	"github.com/olegiv/mentoreu-go/internal/handler"
	"github.com/olegiv/mentoreu-go/internal/i18n"
	"github.com/olegiv/mentoreu-go/internal/lead"
	"github.com/olegiv/mentoreu-go/internal/logging"
	"github.com/olegiv/mentoreu-go/internal/metrics"
	"github.com/olegiv/mentoreu-go/internal/middleware"
	"github.com/olegiv/mentoreu-go/internal/notify"
	"github.com/olegiv/mentoreu-go/internal/render"
	"github.com/olegiv/mentoreu-go/internal/scheduler"
	"github.com/olegiv/mentoreu-go/internal/service"
	"github.com/olegiv/mentoreu-go/internal/session"
	"github.com/olegiv/mentoreu-go/internal/store"
	"github.com/olegiv/mentoreu-go/internal/util"
	"github.com/olegiv/mentoreu-go/internal/version"
	"github.com/olegiv/mentoreu-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// eventRetention is how long event log entries are kept.
const eventRetention = 90 * 24 * time.Hour

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "MentorEU - education consultancy site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MENTOREU_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MENTOREU_DB_PATH           SQLite database path (default: ./data/mentoreu.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MENTOREU_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MENTOREU_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MENTOREU_ADMIN_PASSWORD    Password of the first admin account\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MENTOREU_MAIL_TRANSPORT    emailjs|smtp (default: emailjs)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MENTOREU_REDIS_URL         Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MENTOREU_AMQP_URL          AMQP URL for lead.created events (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MENTOREU_GEOIP_DB_PATH     GeoLite2-Country database (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MENTOREU_SITE_URL          Public base URL for the sitemap (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("mentoreu %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// WARN and ERROR records also go to the event log table.
	logger = slog.New(logging.NewEventLogHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}), db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db, store.SeedConfig{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	slog.Info("database ready")

	queries := store.New(db)
	sessionManager := session.New(db, cfg.IsDevelopment())

	contentCache, cacheBackend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
	}, logger)
	defer func() { _ = contentCache.Close() }()
	slog.Info("cache initialized", "backend", cacheBackend)

	contentService := service.NewContentService(queries, contentCache, cfg.CacheTTLDuration(), logger)
	postService := service.NewPostService(queries, logger)
	mediaService := service.NewMediaService(cfg.UploadsDir)
	eventService := service.NewEventService(db)

	// Lead notifications
	var sender notify.Sender
	switch cfg.MailTransport {
	case config.MailTransportSMTP:
		sender = notify.NewSMTP(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	default:
		sender = notify.NewEmailJS(cfg.EmailJSAPIURL, cfg.NotifyTimeout)
	}
	dispatcher := notify.NewDispatcher(sender, queries, logger, cfg.NotifyTimeout)
	defer dispatcher.Wait()
	notifiers := []lead.Notifier{dispatcher}

	if cfg.UseAMQP() {
		publisher, closeAMQP, err := notify.DialPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			slog.Warn("lead events disabled", "error", err)
		} else {
			defer func() {
				if err := closeAMQP(); err != nil {
					slog.Error("error closing amqp connection", "error", err)
				}
			}()
			notifiers = append(notifiers, publisher)
			slog.Info("publishing lead events", "exchange", cfg.AMQPExchange)
		}
	}
	submitter := lead.NewSubmitter(queries, logger, notifiers...)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = geo.Close() }()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, Logger: logger})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	sched := scheduler.New(logger)
	if err := registerJobs(sched, postService, eventService, geo); err != nil {
		return err
	}
	sched.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sched.Stop(stopCtx)
	}()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig(), logger)
	defer loginProtection.Stop()
	leadLimiter := middleware.NewRateLimiter(float64(cfg.LeadRateLimit), cfg.LeadRateBurst, logger)

	// Handlers
	frontendHandler := handler.NewFrontendHandler(handler.FrontendConfig{
		Content:       contentService,
		Posts:         postService,
		Submitter:     submitter,
		Renderer:      renderer,
		GeoIP:         geo,
		SuccessWindow: cfg.SuccessWindow,
		Logger:        logger,
	})
	authHandler := handler.NewAuthHandler(db, sessionManager, loginProtection, logger)
	leadsHandler := handler.NewLeadsHandler(db, istanbul(), logger)
	contentHandler := handler.NewContentHandler(db, contentService, logger)
	postsHandler := handler.NewPostsHandler(queries, postService, logger)
	mediaHandler := handler.NewMediaHandler(mediaService, logger)
	systemHandler := handler.NewSystemHandler(handler.SystemConfig{
		Events:       eventService,
		Scheduler:    sched,
		Content:      contentService,
		Cache:        contentCache,
		CacheBackend: cacheBackend,
		Logger:       logger,
	})
	seoHandler := handler.NewSEOHandler(postService, contentCache, cfg.SiteURL, cfg.IsDevelopment(), logger)
	healthHandler := handler.NewHealthHandler(db, sessionManager, cfg.UploadsDir, versionInfo)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.RedirectSlashes)
	r.Use(middleware.Timeout(30*time.Second, handler.RouteAdmin+handler.RouteMedia))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), logger)))
	r.Use(middleware.Language)

	// Health and metrics
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.With(privateNetworkOnly).Handle("/metrics", metrics.Handler())

	// Public site
	r.Get(handler.RouteRoot, frontendHandler.Landing)
	r.With(leadLimiter.Middleware(http.HandlerFunc(frontendHandler.RateLimited))).
		Post(handler.RouteLeads, frontendHandler.SubmitLead)
	r.Post(handler.RoutePopupDismiss, frontendHandler.DismissPopup)
	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap.xml", seoHandler.Sitemap)
	r.Get(handler.RouteBlog, frontendHandler.Blog)
	r.Get(handler.RouteBlog+handler.RouteParamSlug, frontendHandler.BlogPost)

	// Public JSON API
	r.Route(handler.RouteAPI, func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
			MaxAge:         300,
		}))
		r.Use(middleware.NoStore)

		r.Get(handler.RouteLanding, frontendHandler.LandingJSON)
		r.Get(handler.RouteForm, frontendHandler.FormJSON)
		r.Get(handler.RoutePopup, frontendHandler.PopupJSON)
		r.With(leadLimiter.Middleware(nil)).Post(handler.RouteLeads, frontendHandler.SubmitLeadJSON)
		r.Post(handler.RoutePopupDismiss, frontendHandler.DismissPopupJSON)
	})

	// Admin JSON API
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(sessionManager, queries, logger))

			r.Post(handler.RouteLogout, authHandler.Logout)
			r.Get(handler.RouteMe, authHandler.Me)
			r.Post(handler.RoutePassword, authHandler.ChangePassword)
			r.Get(handler.RouteStats, leadsHandler.Stats)

			r.Route(handler.RouteLeads, func(r chi.Router) {
				r.Get(handler.RouteRoot, leadsHandler.List)
				r.Get(handler.RouteExport, leadsHandler.Export)
				r.Get(handler.RouteParamID, leadsHandler.Get)
				r.Put(handler.RouteParamID+handler.RouteSuffixContacted, leadsHandler.SetContacted)
				r.Delete(handler.RouteParamID, leadsHandler.Delete)
			})

			registerCRUD(r, handler.RouteSections, crudHandlers{
				List: contentHandler.ListSections, Get: contentHandler.GetSection, Create: contentHandler.CreateSection,
				Update: contentHandler.UpdateSection, Delete: contentHandler.DeleteSection,
			})
			registerCRUD(r, handler.RouteCountries, crudHandlers{
				List: contentHandler.ListCountries, Create: contentHandler.CreateCountry,
				Update: contentHandler.UpdateCountry, Delete: contentHandler.DeleteCountry,
			})
			registerCRUD(r, handler.RoutePopups, crudHandlers{
				List: contentHandler.ListPopups, Get: contentHandler.GetPopup, Create: contentHandler.CreatePopup,
				Update: contentHandler.UpdatePopup, Delete: contentHandler.DeletePopup,
			})
			registerCRUD(r, handler.RouteEducationOptions, crudHandlers{
				List: contentHandler.ListEducationOptions, Create: contentHandler.CreateEducationOption,
				Update: contentHandler.UpdateEducationOption, Delete: contentHandler.DeleteEducationOption,
			})
			registerCRUD(r, handler.RouteCountryOptions, crudHandlers{
				List: contentHandler.ListCountryOptions, Create: contentHandler.CreateCountryOption,
				Update: contentHandler.UpdateCountryOption, Delete: contentHandler.DeleteCountryOption,
			})
			r.Post(handler.RoutePosts+"/preview", postsHandler.Preview)
			registerCRUD(r, handler.RoutePosts, crudHandlers{
				List: postsHandler.List, Get: postsHandler.Get, Create: postsHandler.Create,
				Update: postsHandler.Update, Delete: postsHandler.Delete,
			})

			registerSettingsRoutes(r, handler.RouteSettingsContact, contentHandler.GetContactInfo, contentHandler.SaveContactInfo)
			registerSettingsRoutes(r, handler.RouteSettingsForm, contentHandler.GetFormSettings, contentHandler.SaveFormSettings)
			registerSettingsRoutes(r, handler.RouteSettingsEmail, contentHandler.GetEmailSettings, contentHandler.SaveEmailSettings)
			registerSettingsRoutes(r, handler.RouteSettingsWhatsApp, contentHandler.GetWhatsAppSettings, contentHandler.SaveWhatsAppSettings)

			r.Post(handler.RouteMedia, mediaHandler.Upload)
			r.Delete(handler.RouteMedia+handler.RouteParamID, mediaHandler.Delete)

			r.Get(handler.RouteEvents, systemHandler.Events)
			r.Get(handler.RouteJobs, systemHandler.Jobs)
			r.Post(handler.RouteJobs+handler.RouteParamName+handler.RouteSuffixRun, systemHandler.RunJob)
			r.Get(handler.RouteCache, systemHandler.CacheStats)
			r.Delete(handler.RouteCache, systemHandler.ClearCache)
		})
	})

	// Static assets: cache for 1 year
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/dist/*", middleware.StaticCache(365*24*time.Hour)(
		http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS)))))

	// Uploaded images: cache for 1 week
	r.Handle(service.UploadURLPrefix+"*", middleware.StaticCache(7*24*time.Hour)(
		http.StripPrefix(service.UploadURLPrefix, http.FileServer(http.Dir(cfg.UploadsDir)))))

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// crudHandlers holds the JSON CRUD handlers of one admin resource. Get may
// be nil.
type crudHandlers struct {
	List   http.HandlerFunc
	Get    http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// registerCRUD registers GET base, POST base, GET/PUT/DELETE base/{id}.
func registerCRUD(r chi.Router, base string, h crudHandlers) {
	baseID := base + handler.RouteParamID
	r.Get(base, h.List)
	r.Post(base, h.Create)
	if h.Get != nil {
		r.Get(baseID, h.Get)
	}
	r.Put(baseID, h.Update)
	r.Delete(baseID, h.Delete)
}

// registerSettingsRoutes registers a singleton settings resource.
func registerSettingsRoutes(r chi.Router, route string, get, update http.HandlerFunc) {
	r.Get(route, get)
	r.Put(route, update)
}

func registerJobs(s *scheduler.Scheduler, posts *service.PostService, events *service.EventService, geo *geoip.Lookup) error {
	jobs := []struct {
		name, description, schedule string
		fn                          scheduler.JobFunc
	}{
		{"publish_posts", "Publish blog posts whose scheduled time has passed", scheduler.EveryMinute,
			func(ctx context.Context) error {
				n, err := posts.PublishDue(ctx, time.Now().UTC())
				if n > 0 {
					slog.Info("published scheduled posts", "count", n)
				}
				return err
			}},
		{"prune_events", "Delete event log entries older than 90 days", scheduler.Nightly,
			func(ctx context.Context) error {
				n, err := events.DeleteOldEvents(ctx, eventRetention)
				if n > 0 {
					slog.Info("pruned event log", "deleted", n)
				}
				return err
			}},
		{"reload_geoip", "Reload the GeoIP database if the file changed", scheduler.Weekly,
			func(context.Context) error { return geo.Reload() }},
	}

	for _, j := range jobs {
		if err := s.Add(j.name, j.description, j.schedule, j.fn); err != nil {
			return fmt.Errorf("registering job %s: %w", j.name, err)
		}
	}
	return nil
}

// istanbul is the time zone of the CSV export. UTC is used when the zone
// database is missing.
func istanbul() *time.Location {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		return time.UTC
	}
	return loc
}

// privateNetworkOnly hides /metrics from public clients.
func privateNetworkOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !util.IsPrivateIP(net.ParseIP(util.ClientIP(r))) {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
