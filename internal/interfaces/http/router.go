package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conciliador-api/internal/application/editor"
	"github.com/jhoicas/Conciliador-api/internal/application/options"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Manager   *editor.Manager
	Options   options.Provider
	ChangeLog repository.ChangeLogRepository
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Bloques editables registrados
	blocksHandler := NewBlocksHandler(deps.Manager)
	api.Get("/blocks", blocksHandler.List)

	// Sesiones de edición
	sessions := api.Group("/sessions")
	sessionHandler := NewSessionHandler(deps.Manager)
	sessions.Post("/", sessionHandler.Open)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Post("/:id/changes", sessionHandler.ApplyChange)
	sessions.Post("/:id/selection", sessionHandler.BindSelection)
	sessions.Delete("/:id/selection", sessionHandler.ClearSelection)
	sessions.Post("/:id/rows", sessionHandler.AddRow)
	sessions.Delete("/:id/rows", sessionHandler.RemoveRow)
	sessions.Post("/:id/save", sessionHandler.Save)
	sessions.Post("/:id/cancel", sessionHandler.Cancel)
	sessions.Delete("/:id", sessionHandler.Close)

	// Opciones de formularios
	optionsHandler := NewOptionsHandler(deps.Options)
	api.Get("/options/:category", optionsHandler.List)

	// Historial de cambios
	changeLogHandler := NewChangeLogHandler(deps.ChangeLog)
	api.Get("/modules/:module/records/:record/history", changeLogHandler.ListByRecord)
}
