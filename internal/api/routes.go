package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)

	clock := api.Group("/clock", handler.AuthRequired)
	clock.Post("/in", handler.ClockIn)
	clock.Post("/out", handler.ClockOut)
	clock.Get("/status", handler.ClockStatus)
	clock.Get("/day", handler.ClockDay)
	clock.Post("/manual", handler.ManagerOnly, handler.ManualSession)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Post("/start", handler.StartEntry)
	entries.Get("/active", handler.ActiveEntry)
	entries.Get("/day", handler.EntriesForDay)
	entries.Get("/export.csv", handler.ExportEntriesCSV)
	entries.Get("/export.json", handler.ExportEntriesJSON)
	entries.Get("/export/summary", handler.ExportEntriesSummary)
	entries.Post("/:id/stop", handler.StopEntry)

	tasks := api.Group("/tasks", handler.AuthRequired)
	tasks.Post("", handler.CreateTask)
	tasks.Get("", handler.ListTasks)
	tasks.Get("/:id", handler.GetTask)
	tasks.Patch("/:id", handler.UpdateTask)
	tasks.Post("/:id/assign", handler.SelfAssignTask)
	tasks.Delete("/:id", handler.ManagerOnly, handler.DeleteTask)

	reports := api.Group("/reports", handler.AuthRequired)
	reports.Get("/weekly", handler.WeeklyReport)
	reports.Get("/team", handler.ManagerOnly, handler.TeamReport)

	users := api.Group("/users", handler.AuthRequired, handler.ManagerOnly)
	users.Get("", handler.ListUsers)
	users.Post("", handler.CreateWorker)
	users.Patch("/:id/deactivate", handler.DeactivateUser)
	users.Patch("/:id/reactivate", handler.ReactivateUser)
	users.Post("/:id/reset-password", handler.ResetUserPassword)
}
