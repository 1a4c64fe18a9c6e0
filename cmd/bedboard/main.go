package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Kazuchan1889/bed-management/internal/config"
	"github.com/Kazuchan1889/bed-management/internal/domain/bed"
	"github.com/Kazuchan1889/bed-management/internal/domain/nurse"
	"github.com/Kazuchan1889/bed-management/internal/platform/db"
	"github.com/Kazuchan1889/bed-management/internal/platform/metrics"
	"github.com/Kazuchan1889/bed-management/internal/platform/middleware"
	"github.com/Kazuchan1889/bed-management/pkg/bedstate"
	"github.com/Kazuchan1889/bed-management/pkg/client"
	"github.com/Kazuchan1889/bed-management/pkg/view"
)

// nurseDirectory adapts the nurse service to the bed domain's directory
// interface, avoiding a package cycle between the two domains.
type nurseDirectory struct {
	svc *nurse.Service
}

func (d *nurseDirectory) Ref(ctx context.Context, id int) (*bed.NurseRef, error) {
	n, err := d.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &bed.NurseRef{ID: n.ID, Name: n.Name, EmployeeID: n.EmployeeID}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "bedboard",
		Short: "Hospital bed management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(snapshotCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the bed management API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	cmd.PersistentFlags().String("dir", "migrations", "migrations directory")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return withPool(func(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
				applied, err := db.NewMigrator(pool, dir).Up(ctx)
				if err != nil {
					return err
				}
				logger.Info().Int("applied", applied).Msg("migrations complete")
				return nil
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return withPool(func(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
				statuses, err := db.NewMigrator(pool, dir).Status(ctx)
				if err != nil {
					return err
				}
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Printf("%03d %-30s %s\n", s.Version, s.Name, state)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(upCmd, statusCmd)
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the static floor plan's beds and a starter nurse roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
				bedSvc := bed.NewService(bed.NewRepoPG(pool), bed.NewHistoryRepoPG(pool), nil, logger)
				n, err := bedSvc.Seed(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("seeded %d beds\n", n)

				nurseSvc := nurse.NewService(nurse.NewRepoPG(pool), nurse.NewAssignmentRepoPG(pool), logger)
				created, err := seedNurses(ctx, nurseSvc)
				if err != nil {
					return err
				}
				fmt.Printf("seeded %d nurses\n", created)
				return nil
			})
		},
	}
}

// seedNurses creates a starter roster if the nurse table is empty.
func seedNurses(ctx context.Context, svc *nurse.Service) (int, error) {
	existing, err := svc.List(ctx, nil)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	roster := []nurse.CreateRequest{
		{Name: "Siti Rahayu", EmployeeID: strPtr("N-001")},
		{Name: "Dewi Lestari", EmployeeID: strPtr("N-002")},
		{Name: "Budi Hartono", EmployeeID: strPtr("N-003")},
		{Name: "Rina Kusuma", EmployeeID: strPtr("N-004")},
	}
	for _, req := range roster {
		if _, err := svc.Create(ctx, req); err != nil {
			return 0, err
		}
	}
	return len(roster), nil
}

func strPtr(s string) *string { return &s }

// snapshotCmd prints a ward overview fetched through the public API, using
// the same client and store the dashboard uses.
func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print a ward occupancy snapshot from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("url")
			if baseURL == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				baseURL = cfg.APIBaseURL
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			store := bedstate.New(client.New(baseURL))
			if err := store.Load(ctx); err != nil {
				return fmt.Errorf("load beds: %w", err)
			}

			beds := store.Beds()
			stats := store.Stats()
			fmt.Printf("beds: %d total, %d available, %d occupied, %d repair, %d maintenance\n",
				stats.Total, stats.Available, stats.Occupied, stats.Repair, stats.Maintenance)

			fmt.Println("\nbusiest rooms:")
			for _, r := range view.TopRooms(beds, 5) {
				fmt.Printf("  %-15s floor %d  %d/%d occupied, %d repair\n",
					r.DisplayName, r.Floor, r.Occupied, r.Total(), r.Repair)
			}

			fmt.Println("\nfloors:")
			for _, f := range view.SummarizeFloors(beds) {
				fmt.Printf("  floor %d  %d/%d occupied\n", f.Floor, f.Occupied, f.Total())
			}

			if ds := store.Discrepancies(); len(ds) > 0 {
				fmt.Println("\nfloor plan discrepancies:")
				for _, d := range ds {
					fmt.Printf("  %s\n", d)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("url", "", "API base URL including the /api mount (defaults to API_BASE_URL)")
	return cmd
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

// withPool loads config, opens the database pool, and runs fn with both.
func withPool(fn func(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error) error {
	logger := newLogger()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, pool, logger)
}

// errorHandler renders every failure as the {"error": message} envelope the
// dashboard expects.
func errorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := "internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = fmt.Sprint(he.Message)
			}
		}
		if code >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	metrics.Register()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	e.Use(metrics.HTTPMiddleware())

	// Services
	nurseSvc := nurse.NewService(nurse.NewRepoPG(pool), nurse.NewAssignmentRepoPG(pool), logger)
	bedSvc := bed.NewService(bed.NewRepoPG(pool), bed.NewHistoryRepoPG(pool), &nurseDirectory{svc: nurseSvc}, logger)

	// API group
	api := e.Group("/api")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	bed.NewHandler(bedSvc).RegisterRoutes(api)
	nurse.NewHandler(nurseSvc).RegisterRoutes(api)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unreachable")
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", metrics.Handler())

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
