package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "webflash/docs"
	"webflash/internal/handlers"
	"webflash/internal/logger"
	"webflash/internal/manifest"
	"webflash/internal/repository"
	"webflash/internal/repository/db"
	"webflash/internal/server"
	"webflash/internal/service"

	"github.com/spf13/viper"
)

// @title WebFlash API
// @version 1.0
// @description Resolves Sense360 hardware configurations to firmware builds and tracks flash sessions.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

func main() {
	// load config.yml; defaults cover a missing file
	cfgErr := loadConfig()

	log := logger.Init(logger.Config{
		Level:    viper.GetString("log.level"),
		Encoding: viper.GetString("log.encoding"),
	})
	defer func() { _ = log.Sync() }()
	if cfgErr != nil {
		log.Warnw("config file not loaded; using defaults", "err", cfgErr)
	}

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := viper.GetString("manifest.source")
	loader := manifest.NewLoader(source)
	store := manifest.NewStore(loader, source)
	if snap, err := store.Reload(ctx); err != nil {
		log.Warnw("initial manifest load failed; serving without firmware until reload", "source", source, "err", err)
	} else {
		log.Infow("manifest loaded", "source", source, "version", snap.Manifest.Version, "builds", len(snap.Builds()))
	}

	presets, err := service.LoadPresetCatalog(viper.GetString("presets.path"))
	if err != nil {
		log.Fatalw("failed to load preset catalog", "err", err)
	}

	baseURL, err := partsBaseURL(viper.GetString("manifest.base_url"), loader)
	if err != nil {
		log.Fatalw("invalid manifest.base_url", "err", err)
	}

	signingKey := viper.GetString("auth.signing_key")
	if signingKey == "" {
		signingKey = randomKey()
		log.Warnw("auth.signing_key not set; tokens will not survive a restart")
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Deps{
		Store:   store,
		Presets: presets,
		BaseURL: baseURL,
		Auth: service.AuthConfig{
			SigningKey: signingKey,
			TokenTTL:   viper.GetDuration("auth.token_ttl"),
		},
		Log: log,
	})
	apiHandler := handlers.NewHandler(services, log)

	// advance flash sessions
	go services.Flasher.Run(ctx, viper.GetDuration("flash.tick"))

	// start HTTP server
	srv := server.New(server.Config{
		ReadHeaderTimeout: viper.GetDuration("server.read_header_timeout"),
		WriteTimeout:      viper.GetDuration("server.write_timeout"),
		IdleTimeout:       viper.GetDuration("server.idle_timeout"),
	})
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func setDefaults() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("db.path", "webflash.db")
	viper.SetDefault("manifest.source", "manifest.json")
	viper.SetDefault("manifest.base_url", "")
	viper.SetDefault("presets.path", "")
	viper.SetDefault("auth.signing_key", "")
	viper.SetDefault("auth.token_ttl", service.DefaultTokenTTL)
	viper.SetDefault("flash.tick", service.DefaultFlashTick)
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("log.encoding", logger.ConsoleEncoding)
	viper.SetDefault("server.read_header_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.idle_timeout", 60*time.Second)
}

func loadConfig() error {
	setDefaults()
	viper.SetEnvPrefix("WEBFLASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	log.Infow("opening sqlite", "path", dbPath)
	return db.InitDB(dbPath)
}

// partsBaseURL prefers the configured base URL and falls back to the directory
// of a remote manifest.
func partsBaseURL(raw string, loader *manifest.Loader) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return loader.BaseURL(), nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, errors.New("base url must be absolute")
	}
	return u, nil
}

func randomKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
