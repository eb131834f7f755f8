package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuelReschke/BlockHolder/app/controllers"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/archive"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/billing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/billingview"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/cache"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/database"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/feedback"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/logger"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/mail"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/oauth"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/router"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/upgrade"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/wallet"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, log := NewApplication(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func NewApplication(ctx context.Context) (*fiber.App, zerolog.Logger) {
	env.SetupEnvFile()
	log := logger.Setup()
	database.SetupDatabase()
	cache.SetupCache()

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/blockholder to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	controllers.Setup(newDependencies(ctx, log))

	// init fiber app
	app := fiber.New(fiber.Config{
		Views:     html.New(basePath+"views", ".html"),
		BodyLimit: 1 * 1024 * 1024,
		// Dashboard controllers keep request values past the handler.
		Immutable: true,
	})

	app.Use(favicon.New())

	// recovery and logging
	app.Use(recover.New(), fiberlogger.New())

	metricsAuth := basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "change-me"),
		},
	})
	app.Get("/metrics", metricsAuth, adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/monitor", metricsAuth, monitor.New())

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app, log
}

// newDependencies wires the services behind the handlers and starts their
// background loops on ctx.
func newDependencies(ctx context.Context, log zerolog.Logger) controllers.Dependencies {
	db := database.GetDB()
	rdb := cache.GetClient()
	baseURL := oauth.BaseURL()

	billingService := billing.NewServiceFromDB(db, log)

	w, err := wallet.NewFromEnv(ctx)
	if err != nil {
		log.Error().Err(err).Msg("wallet provider unavailable, upgrades are disabled")
		w = nil
	}
	recipient := env.GetEnv("UPGRADE_RECIPIENT_ADDRESS", "")
	switch {
	case recipient != "" && !common.IsHexAddress(recipient):
		log.Fatal().Str("address", recipient).Msg("UPGRADE_RECIPIENT_ADDRESS is not a valid address")
	case recipient == "" && w != nil:
		// Never send fees to the zero address.
		log.Warn().Msg("UPGRADE_RECIPIENT_ADDRESS is unset, upgrades are disabled")
		w = nil
	}
	flow := upgrade.NewFlow(w, cache.NewIdempotencyGuard(rdb), upgrade.Config{
		Recipient:      common.HexToAddress(recipient),
		ConfirmTimeout: env.GetEnvDuration("UPGRADE_CONFIRM_TIMEOUT", upgrade.DefaultConfirmTimeout),
		Cooldown:       env.GetEnvDuration("UPGRADE_COOLDOWN", upgrade.DefaultCooldown),
	}, log)

	dashboards := billingview.NewRegistry(env.GetEnvDuration("VIEW_IDLE_TTL", billingview.DefaultIdleTTL), func(user billingview.User) *billingview.Controller {
		return billingview.NewController(user, billingview.Deps{
			Billing:   billingService,
			Upgrader:  flow,
			Scheduler: billingview.RealScheduler,
			BaseURL:   baseURL,
			Log:       log,
			Outbox:    billingview.NewOutbox(),
		})
	})
	go dashboards.Run(ctx)

	var archiver feedback.Archiver
	if cfg, err := archive.LoadConfig(); err != nil {
		log.Error().Err(err).Msg("feedback archive misconfigured")
	} else if cfg.IsEnabled() {
		client, err := archive.NewClient(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("feedback archive unavailable")
		} else {
			archiver = client
		}
	}
	var mailer feedback.Mailer
	if m := mail.NewFromEnv(); m != nil {
		mailer = m
	}
	gateway := feedback.NewStoreGateway(feedback.NewRepository(db), archiver, mailer, env.GetEnv("FEEDBACK_NOTIFY_EMAIL", ""), log)

	visits := counter.New(rdb, db)
	go visits.Run(ctx, env.GetEnvDuration("REFERRAL_FLUSH_INTERVAL", time.Minute))

	d := controllers.Dependencies{
		Dashboards: dashboards,
		Billing:    billingService,
		Feedback:   gateway,
		Referrals:  visits,
		BaseURL:    baseURL,
		Log:        log,
	}
	if v := hcaptcha.NewFromEnv(); v != nil {
		d.Captcha = v
	}
	return d
}
