package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	"github.com/jhoicas/apurement-api/internal/application/auth"
	"github.com/jhoicas/apurement-api/internal/application/report"
	"github.com/jhoicas/apurement-api/internal/application/usecase"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
	"github.com/jhoicas/apurement-api/internal/infrastructure/lock"
	"github.com/jhoicas/apurement-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/apurement-api/internal/infrastructure/pdf"
	"github.com/jhoicas/apurement-api/internal/infrastructure/postgres"
	"github.com/jhoicas/apurement-api/internal/infrastructure/seed"
	"github.com/jhoicas/apurement-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/apurement-api/internal/interfaces/http"
	"github.com/jhoicas/apurement-api/pkg/config"
	"github.com/jhoicas/apurement-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("lock", cfg.Lock.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET no configurado")
	}

	ctx := context.Background()

	// Almacén: PostgreSQL o memoria
	var (
		txRunner apurement.TxRunner
		reads    apurement.Repos
		userRepo repository.UserRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		txRunner, reads, userRepo = store, store.Repos(), store.Users()
		log.Warn().Msg("almacén en memoria: los datos se pierden al detener el proceso")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		txRunner, reads, userRepo = postgres.NewTxRunner(pool), postgres.NewRepos(pool), postgres.NewUserRepository(pool)
	}

	// Bloqueo por SA previo a la transacción
	var locker apurement.Locker
	switch cfg.Lock.Driver {
	case config.LockRedis:
		client, err := lock.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		locker = lock.NewRedis(client, cfg.Lock.TTL(), log)
	case config.LockNone:
		locker = apurement.NoopLocker{}
	default:
		locker = lock.NewLocal()
	}

	engine := apurement.NewService(txRunner, reads, locker, log, cfg.Apurement.MaxAttempts)
	familyUC := usecase.NewFamilyUseCase(reads.Families)

	if path := cfg.Bootstrap.FamiliesCSV; path != "" {
		if err := loadFamilies(ctx, familyUC, path); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("carga de familias")
		}
		log.Info().Str("path", path).Msg("familias cargadas")
	}
	if cfg.Bootstrap.Enabled() {
		created, err := auth.EnsureAdmin(ctx, userRepo, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("bootstrap del administrador")
		}
		if created {
			log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("administrador creado")
		}
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	reportUC := report.NewUseCase(engine, reads, xlsx.NewWriter(), infrapdf.NewMarotoPDFGenerator(cfg.App.Name))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Apurement API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		FamilyUC:    familyUC,
		SaUC:        usecase.NewSaUseCase(engine, reads, log),
		EaUC:        usecase.NewEaUseCase(engine, reads, log),
		ApurementUC: usecase.NewApurementUseCase(engine),
		ReportUC:    reportUC,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func loadFamilies(ctx context.Context, uc *usecase.FamilyUseCase, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	list, err := seed.ParseFamiliesCSV(f)
	if err != nil {
		return err
	}
	return uc.Import(ctx, list)
}
