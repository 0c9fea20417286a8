package handler

import (
	"github.com/taskboard/task-manager/internal/core/domain"
	"github.com/taskboard/task-manager/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createTaskRequest, userID, idempotencyKey string) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		IdempotencyKey: idempotencyKey,
	}
}

func toUpdateInput(req updateTaskRequest, id int64, userID string) ports.UpdateTaskInput {
	return ports.UpdateTaskInput{
		ID:          id,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsCompleted: req.IsCompleted,
	}
}

// --- Service result → HTTP response ---

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt.UTC(),
		UserID:      t.UserID,
	}
}

func toTaskListResponse(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskResponse(t)
	}
	return out
}
