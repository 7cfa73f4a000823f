//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/cms-in-go/pkg/config"
	"github.com/doodlesbykumbi/cms-in-go/pkg/db"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/endpoints"
)

const tokenSecret = "integration-token-secret"

const usage = `either CMS_BINARY or CMS_INLINE=1 is required

Binary mode:
  go build -o cmsctl ./cmd/cmsctl
  INTEGRATION_TEST=1 CMS_BINARY=$(pwd)/cmsctl go test -tags integration -v ./test/integration/...

Inline mode:
  INTEGRATION_TEST=1 CMS_INLINE=1 go test -tags integration -v ./test/integration/...`

// TestContext is a migrated Postgres container plus a CMS server pointed at it
type TestContext struct {
	DB          *gorm.DB
	ServerURL   string
	DatabaseURL string
	TokenSecret []byte
	HTTPClient  *http.Client

	cleanups []func(context.Context)
}

// serverEnv is what a CMS server under test needs to know
type serverEnv struct {
	db          *gorm.DB
	databaseURL string
	port        int
	siteURL     string
}

// startFunc launches a server and returns the function that stops it
type startFunc func(serverEnv) (stop func(context.Context), err error)

// NewTestContext starts the database and the server. CMS_INLINE=1 runs the
// server in this process; otherwise CMS_BINARY names a cmsctl build.
func NewTestContext(ctx context.Context) (_ *TestContext, err error) {
	start, err := serverMode()
	if err != nil {
		return nil, err
	}

	root, err := findProjectRoot()
	if err != nil {
		return nil, err
	}

	tc := &TestContext{
		TokenSecret: []byte(tokenSecret),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	defer func() {
		if err != nil {
			tc.Close(ctx)
		}
	}()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("cms_test"),
		tcpostgres.WithUsername("cms"),
		tcpostgres.WithPassword("cms"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}
	tc.onClose(func(ctx context.Context) { _ = container.Terminate(ctx) })

	if tc.DatabaseURL, err = container.ConnectionString(ctx, "sslmode=disable"); err != nil {
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}
	if err := runMigrations(filepath.Join(root, "db", "migrations"), tc.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if tc.DB, err = db.Connect(db.Config{URL: tc.DatabaseURL, LogLevel: "error"}); err != nil {
		return nil, err
	}
	tc.onClose(func(context.Context) {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	port, err := freePort()
	if err != nil {
		return nil, err
	}
	tc.ServerURL = "http://127.0.0.1:" + strconv.Itoa(port)

	stop, err := start(serverEnv{db: tc.DB, databaseURL: tc.DatabaseURL, port: port, siteURL: tc.ServerURL})
	if err != nil {
		return nil, fmt.Errorf("failed to start server: %w", err)
	}
	tc.onClose(stop)

	readyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := waitForHealth(readyCtx, tc.ServerURL+"/health"); err != nil {
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return tc, nil
}

func serverMode() (startFunc, error) {
	if os.Getenv("CMS_INLINE") == "1" {
		slog.Info("using inline server mode")
		return startInline, nil
	}

	binary := os.Getenv("CMS_BINARY")
	if binary == "" {
		return nil, errors.New(usage)
	}
	if _, err := os.Stat(binary); err != nil {
		return nil, fmt.Errorf("CMS_BINARY path does not exist: %s", binary)
	}
	slog.Info("using cmsctl binary", slog.String("path", binary))
	return startBinary(binary), nil
}

func startInline(env serverEnv) (func(context.Context), error) {
	cfg := config.NewDefault()
	cfg.SiteURL = env.siteURL
	cfg.TokenSecret = tokenSecret

	s, err := server.NewServer(cfg, env.db, "127.0.0.1", strconv.Itoa(env.port))
	if err != nil {
		return nil, err
	}
	endpoints.RegisterAll(s)

	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("inline server stopped", slog.Any("error", err))
		}
	}()

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}, nil
}

func startBinary(binary string) startFunc {
	return func(env serverEnv) (func(context.Context), error) {
		// migrations already ran against the container
		cmd := exec.Command(binary, "server", "--no-migrate", "-b", "127.0.0.1", "-p", strconv.Itoa(env.port))
		cmd.Env = append(os.Environ(),
			"DATABASE_URL="+env.databaseURL,
			"CMS_SITE_URL="+env.siteURL,
			"CMS_TOKEN_SECRET="+tokenSecret,
		)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("failed to start binary: %w", err)
		}
		return func(context.Context) {
			_ = cmd.Process.Signal(os.Interrupt)
			done := make(chan struct{})
			go func() {
				_ = cmd.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(10 * time.Second):
				_ = cmd.Process.Kill()
				<-done
			}
		}, nil
	}
}

// freePort asks the kernel for an unused TCP port
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to reserve a port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// waitForHealth polls url until it answers 200 or ctx is done
func waitForHealth(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if resp, err := client.Do(req); err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s not healthy: %w", url, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (tc *TestContext) onClose(fn func(context.Context)) {
	tc.cleanups = append(tc.cleanups, fn)
}

// Close releases everything NewTestContext started, newest first
func (tc *TestContext) Close(ctx context.Context) {
	for i := len(tc.cleanups) - 1; i >= 0; i-- {
		tc.cleanups[i](ctx)
	}
	tc.cleanups = nil
}

// findProjectRoot walks up from the working directory to the go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("project root not found (looking for go.mod)")
		}
		dir = parent
	}
}

// runMigrations applies the up migrations with golang-migrate
func runMigrations(migrationsDir, dbURL string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
