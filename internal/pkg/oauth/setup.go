package oauth

import (
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/cache"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/logger"
)

// BaseURL is the public origin used for callbacks and referral links.
func BaseURL() string {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}
	return base
}

// Setup initializes Goth providers and session store based on environment variables.
// Providers without a configured key are skipped.
func Setup() {
	base := BaseURL()
	log := logger.For("oauth")

	var providers []goth.Provider
	if key := env.GetEnv("GOOGLE_KEY", ""); key != "" {
		providers = append(providers, google.New(
			key,
			env.GetEnv("GOOGLE_SECRET", ""),
			base+"/auth/google/callback",
			"email", "profile",
		))
	}
	if key := env.GetEnv("FACEBOOK_KEY", ""); key != "" {
		providers = append(providers, facebook.New(
			key,
			env.GetEnv("FACEBOOK_SECRET", ""),
			base+"/auth/facebook/callback",
			"email", "public_profile",
		))
	}
	if key := env.GetEnv("DISCORD_KEY", ""); key != "" {
		providers = append(providers, discord.New(
			key,
			env.GetEnv("DISCORD_SECRET", ""),
			base+"/auth/discord/callback",
			discord.ScopeIdentify, discord.ScopeEmail,
		))
	}
	if len(providers) == 0 {
		log.Warn().Msg("no OAuth provider configured, sign-in is disabled")
	}
	goth.UseProviders(providers...)

	// OAuth state via Redis, using same connection as app sessions (separate DB)
	cacheOpts := cache.GetClient().Options()
	host, port := "127.0.0.1", 6379
	if cacheOpts != nil && cacheOpts.Addr != "" {
		if h, p, err := net.SplitHostPort(cacheOpts.Addr); err == nil {
			host = h
			if parsed, e := strconv.Atoi(p); e == nil {
				port = parsed
			}
		} else {
			host = cacheOpts.Addr
		}
	}

	gothfiber.SessionStore = session.New(session.Config{
		Storage: redisstorage.New(redisstorage.Config{
			Host:     host,
			Port:     port,
			Username: cacheOpts.Username,
			Password: cacheOpts.Password,
			Database: 2,
			Reset:    false,
		}),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     72 * time.Hour,
	})
}

// ProviderNames lists the registered providers for the sign-in buttons.
func ProviderNames() []string {
	names := make([]string, 0)
	for name := range goth.GetProviders() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
