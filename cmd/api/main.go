package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pitstop/internal/authlog"
	"pitstop/internal/catalog"
	"pitstop/internal/checkout"
	"pitstop/internal/db"
	"pitstop/internal/mailer"
	"pitstop/internal/notifications"
	"pitstop/internal/payments"
	"pitstop/internal/ratelimiter"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values
	defaultRequests := 200
	defaultEnabled := false

	// Retrieve request count with error handling
	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	// Retrieve enabled flag with error handling
	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)

	return logger.Sugar(), nil
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		fmt.Printf("Invalid %s, defaulting to %s\n", key, fallback)
		return fallback
	}
	return d
}

var version = "1.0.0"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg := config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		gateway: gatewayConfig{
			endpoint: os.Getenv("GATEWAY_ENDPOINT"),
			apiKey:   os.Getenv("GATEWAY_API_KEY"),
		},
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    25,
			maxIdleTime: "15m",
		},
		mail: mailConfig{
			smtpHost:   os.Getenv("SMTP_HOST"),
			smtpUser:   os.Getenv("SMTP_USER"),
			smtpPass:   os.Getenv("SMTP_PASS"),
			fromEmail:  os.Getenv("MAIL_FROM_EMAIL"),
			alertEmail: os.Getenv("ORDER_ALERT_EMAIL"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
		},
		session: sessionConfig{
			ttl:           durationFromEnv("SESSION_TTL", 30*time.Minute),
			sweepInterval: durationFromEnv("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	if cfg.gateway.endpoint == "" {
		log.Fatal("GATEWAY_ENDPOINT is required")
	}

	if maxConnsStr := os.Getenv("DB_MAX_CONNS"); maxConnsStr != "" {
		maxConns, err := strconv.Atoi(maxConnsStr)
		if err != nil {
			log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
		}
		cfg.db.maxConns = int32(maxConns)
	}
	if smtpPortStr := os.Getenv("SMTP_PORT"); smtpPortStr != "" {
		smtpPort, err := strconv.Atoi(smtpPortStr)
		if err != nil {
			log.Fatalf("Invalid value for SMTP_PORT: %v", err)
		}
		cfg.mail.smtpPort = smtpPort
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	cat := catalog.Default()
	toasts := notifications.NewCenter()
	sessions := checkout.NewManager(cat, cfg.session.ttl)
	gateway := payments.NewHTTPGateway(cfg.gateway.endpoint, cfg.gateway.apiKey)

	controller := checkout.NewController(cat, gateway, sessions, toasts, logger)

	// Authorization log is optional: only wired when a database is configured.
	if cfg.db.addr != "" {
		pool, err := db.New(cfg.db.addr, cfg.db.maxConns, cfg.db.maxIdleTime)
		if err != nil {
			logger.Fatal(err)
		}
		defer pool.Close()
		logger.Info("database connection pool established")

		repo := authlog.NewRepository(pool)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			logger.Fatal(err)
		}
		controller.Recorder = repo

		expvar.Publish("database", expvar.Func(func() any {
			s := pool.Stat()
			return map[string]any{
				"total_conns":    s.TotalConns(),
				"acquired_conns": s.AcquiredConns(),
				"idle_conns":     s.IdleConns(),
			}
		}))
	}

	// Shop alert mail is optional too.
	if cfg.mail.smtpHost != "" && cfg.mail.alertEmail != "" {
		smtp, err := mailer.NewSMTPClient(
			cfg.mail.smtpHost,
			cfg.mail.smtpPort,
			cfg.mail.smtpUser,
			cfg.mail.smtpPass,
			cfg.mail.fromEmail,
		)
		if err != nil {
			logger.Fatal(err)
		}
		controller.Mail = smtp
		controller.AlertEmail = cfg.mail.alertEmail
	}

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:      cfg,
		catalog:     cat,
		sessions:    sessions,
		controller:  controller,
		toasts:      toasts,
		logger:      logger,
		rateLimiter: rateLimiter,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	app.sweepExpiredSessions()

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
