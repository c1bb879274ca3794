package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Conciliador-api/internal/application/cheque"
	"github.com/jhoicas/Conciliador-api/internal/application/editor"
	"github.com/jhoicas/Conciliador-api/internal/application/ledger"
	"github.com/jhoicas/Conciliador-api/internal/application/options"
	"github.com/jhoicas/Conciliador-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Conciliador-api/internal/interfaces/http"
	"github.com/jhoicas/Conciliador-api/pkg/config"
	"github.com/jhoicas/Conciliador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	recordStore := postgres.NewRecordStore(pool)
	chequeRepo := postgres.NewChequeRepository(pool)
	changeLogRepo := postgres.NewChangeLogRepository(pool)
	statsSync := postgres.NewStatsSync(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerSvc := ledger.NewService(txRunner, log)
	chequeLinker := cheque.NewLinker(chequeRepo, log)

	manager := editor.NewManager(editor.Deps{
		Store:     recordStore,
		Ledger:    ledgerSvc,
		Cheques:   chequeLinker,
		ChangeLog: changeLogRepo,
		Stats:     statsSync,
		Log:       log,
	}, editor.DefaultBlocks())

	// Opciones: listas estáticas de los bloques incluidos, con fallback al
	// record store para categorías administradas (productos, terceros...).
	optionsProvider := options.Chain{
		options.DefaultStatic(),
		options.NewStoreProvider(recordStore),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Manager:   manager,
		Options:   optionsProvider,
		ChangeLog: changeLogRepo,
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
