package config

import (
	"testing"
)

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("LOG_DIR", "./_testlogs")
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "site_test")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PAGESPEED_API_KEY", "k")
	t.Setenv("PAGESPEED_RPM", "0")
	t.Setenv("PAGESPEED_BURST", "3")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_PREFIX", "staging:contact")
	t.Setenv("ADMIN_API_KEYS", "adm_x, adm_y")

	cfg := FromEnv()

	if cfg.Addr != ":9090" || cfg.LogDir != "./_testlogs" {
		t.Fatalf("addr/logdir wrong: %+v", cfg)
	}
	if cfg.MongoURL == "" || cfg.DBName != "site_test" {
		t.Fatalf("mongo settings wrong: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors origins wrong: %+v", cfg.CORSOrigins)
	}
	if cfg.PageSpeedRPM != 0 || cfg.PageSpeedBurst != 3 {
		t.Fatalf("throttle wrong: rpm=%d burst=%d", cfg.PageSpeedRPM, cfg.PageSpeedBurst)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 || cfg.RedisPrefix != "staging:contact" {
		t.Fatalf("redis wrong: %+v", cfg)
	}
	if len(cfg.AdminAPIKeys) != 2 || cfg.AdminAPIKeys[1] != "adm_y" {
		t.Fatalf("admin keys wrong: %+v", cfg.AdminAPIKeys)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"API_ADDR", "LOG_DIR", "MONGO_URL", "DB_NAME", "DATABASE_URL", "CORS_ORIGINS",
		"PAGESPEED_API_KEY", "PAGESPEED_RPM", "PAGESPEED_BURST", "REDIS_ADDR", "REDIS_DB",
		"REDIS_PREFIX", "RECAPTCHA_SECRET_KEY", "SLACK_WEBHOOK_URL", "ADMIN_API_KEYS",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("PAGESPEED_BURST", "lots")

	cfg := FromEnv()
	if cfg.Addr != "127.0.0.1:8080" || cfg.LogDir != "logs" || cfg.DBName != "site" {
		t.Fatalf("defaults wrong: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("cors default wrong: %+v", cfg.CORSOrigins)
	}
	if cfg.PageSpeedRPM != 30 || cfg.PageSpeedBurst != 10 {
		t.Fatalf("throttle defaults wrong: rpm=%d burst=%d", cfg.PageSpeedRPM, cfg.PageSpeedBurst)
	}
	if cfg.RedisPrefix != "ratelimit:contact" {
		t.Fatalf("redis prefix default wrong: %q", cfg.RedisPrefix)
	}
	if cfg.AdminAPIKeys != nil || cfg.RecaptchaSecret != "" {
		t.Fatalf("optional features should be off: %+v", cfg)
	}
}
