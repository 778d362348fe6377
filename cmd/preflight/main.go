// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/wdp365/siteapi/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.Load()

	if cfg.PageSpeedAPIKey == "" {
		fail("PAGESPEED_API_KEY is empty (/api/pagespeed will answer 500).")
	}
	ok("PAGESPEED_API_KEY present")

	// Lists are split on commas; spaces are trimmed but usually a typo.
	for _, name := range []string{"ADMIN_API_KEYS", "CORS_ORIGINS"} {
		if strings.Contains(os.Getenv(name), " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. a,b")
		}
	}

	ok("API_ADDR=" + cfg.Addr)

	switch {
	case cfg.MongoURL != "":
		ok("MONGO_URL present (db " + cfg.DBName + ")")
		if cfg.DatabaseURL != "" {
			warn("DATABASE_URL is ignored while MONGO_URL is set.")
		}
	case cfg.DatabaseURL != "":
		ok("DATABASE_URL present")
	default:
		warn("MONGO_URL and DATABASE_URL empty; API will use the in-memory store.")
	}

	if len(cfg.AdminAPIKeys) == 0 {
		warn("ADMIN_API_KEYS empty; GET /api/contact/submissions is unauthenticated.")
	} else {
		ok(fmt.Sprintf("ADMIN_API_KEYS: %d key(s)", len(cfg.AdminAPIKeys)))
	}

	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		warn("CORS_ORIGINS is *; any site may call the API from a browser.")
	} else {
		ok("CORS_ORIGINS=" + strings.Join(cfg.CORSOrigins, ","))
	}

	if cfg.RedisAddr == "" {
		warn("REDIS_ADDR empty; contact rate limits are per-process.")
	} else {
		ok("REDIS_ADDR=" + cfg.RedisAddr)
	}
	if cfg.RecaptchaSecret == "" {
		warn("RECAPTCHA_SECRET_KEY empty; contact form relies on the honeypot only.")
	}
	if cfg.SlackWebhookURL == "" {
		warn("SLACK_WEBHOOK_URL empty; no notification on new submissions.")
	}

	ok("preflight passed")
}
