package api

import (
	"github.com/gofiber/fiber/v2"

	"jornada/internal/services"
)

func (handler *Handler) CreateTask(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := createTaskInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	dueDate, err := parseOptionalDueDate(input.DueDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid due date")
	}

	handler.ensureDependencies()
	task, err := handler.taskService.CreateTask(actor, services.TaskCreateInput{
		Title:          input.Title,
		Description:    input.Description,
		AssignedToID:   input.AssignedToID,
		Priority:       input.Priority,
		EstimatedHours: input.EstimatedHours,
		DueDate:        dueDate,
	})
	if err != nil {
		return respondDomainError(c, err, "failed to create task")
	}

	return c.Status(fiber.StatusCreated).JSON(buildTaskView(task, handler.now()))
}

func (handler *Handler) ListTasks(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	assignedToID, err := parseOptionalUintQuery(c.Query("assigned_to_id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid assigned_to_id")
	}

	handler.ensureDependencies()
	tasks, err := handler.taskService.ListTasks(actor, c.Query("status"), c.Query("priority"), assignedToID)
	if err != nil {
		return respondDomainError(c, err, "failed to fetch tasks")
	}

	return c.JSON(buildTaskViews(tasks, handler.now()))
}

func (handler *Handler) GetTask(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid task id")
	}

	handler.ensureDependencies()
	task, err := handler.taskService.GetTask(actor, taskID)
	if err != nil {
		return respondDomainError(c, err, "failed to fetch task")
	}

	return c.JSON(buildTaskView(task, handler.now()))
}

func (handler *Handler) UpdateTask(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid task id")
	}

	input := updateTaskInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	dueDate, err := parseOptionalDueDate(input.DueDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid due date")
	}

	handler.ensureDependencies()
	task, err := handler.taskService.UpdateTask(actor, taskID, services.TaskUpdateInput{
		Title:              input.Title,
		Description:        input.Description,
		AssignedToID:       input.AssignedToID,
		Status:             input.Status,
		Priority:           input.Priority,
		EstimatedHours:     input.EstimatedHours,
		DueDate:            dueDate,
		CompletionComments: input.CompletionComments,
	}, handler.now())
	if err != nil {
		return respondDomainError(c, err, "failed to update task")
	}

	return c.JSON(buildTaskView(task, handler.now()))
}

func (handler *Handler) SelfAssignTask(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid task id")
	}

	handler.ensureDependencies()
	task, err := handler.taskService.SelfAssign(actor, taskID)
	if err != nil {
		return respondDomainError(c, err, "failed to assign task")
	}

	return c.JSON(buildTaskView(task, handler.now()))
}

func (handler *Handler) DeleteTask(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid task id")
	}

	handler.ensureDependencies()
	if err := handler.taskService.DeleteTask(actor, taskID); err != nil {
		return respondDomainError(c, err, "failed to delete task")
	}

	return c.JSON(fiber.Map{"ok": true})
}
