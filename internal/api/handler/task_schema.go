package handler

import "time"

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"required,notblank,max=2000"`
	Category    string `json:"category"    validate:"required,notblank,max=50"`
}

type updateTaskRequest struct {
	Title       string `json:"title"       validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"required,notblank,max=2000"`
	Category    string `json:"category"    validate:"required,notblank,max=50"`
	IsCompleted bool   `json:"isCompleted"`
}

// taskResponse is owned by the transport layer so the JSON contract does not
// move with the domain type.
type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      string    `json:"userId"`
}
