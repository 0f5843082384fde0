package tasks

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

type CreateTaskMessage struct {
	ActingUserID int64  `json:"-"`
	Title        string `json:"title"`
	Description  string `json:"description"`

	OnResponse func(*Task) `json:"-"`
}

func (e CreateTaskMessage) Type() string { return "task.create" }

func (e CreateTaskMessage) Validate() error {
	if err := goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&e,
			validation.Field(&e.Title, validation.Required, validation.Length(1, 150)),
		)
	}, "Invalid task payload"); err != nil {
		return err
	}
	return nil
}

type CreateTaskHandler struct {
	repo RepositoryManager
}

func NewCreateTaskHandler(repo RepositoryManager) *CreateTaskHandler {
	return &CreateTaskHandler{repo: repo}
}

// Execute creates a task owned by the acting user. Ownership is fixed
// here and never changes afterwards.
func (h *CreateTaskHandler) Execute(ctx context.Context, event CreateTaskMessage) error {
	if err := event.Validate(); err != nil {
		return err
	}

	record := &Task{
		Title:       event.Title,
		Description: event.Description,
		UserID:      event.ActingUserID,
	}

	record, err := h.repo.Tasks().Create(ctx, record)
	if err != nil {
		return err
	}

	if event.OnResponse != nil {
		event.OnResponse(record)
	}

	return nil
}

type UpdateTaskMessage struct {
	ActingUserID int64 `json:"-"`
	TaskID       int64 `json:"-"`

	// nil means "leave the field alone", mirroring partial update payloads
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`

	OnResponse func(*Task) `json:"-"`
}

func (e UpdateTaskMessage) Type() string { return "task.update" }

type UpdateTaskHandler struct {
	repo RepositoryManager
}

func NewUpdateTaskHandler(repo RepositoryManager) *UpdateTaskHandler {
	return &UpdateTaskHandler{repo: repo}
}

// Execute updates a task after the ownership gate passes. A task owned by
// another user and a task that does not exist produce the same error.
func (h *UpdateTaskHandler) Execute(ctx context.Context, event UpdateTaskMessage) error {
	record, err := h.repo.Tasks().GetByID(ctx, event.TaskID)
	if err != nil {
		return err
	}

	if err := AuthorizeOrNotFound(event.ActingUserID, record.UserID); err != nil {
		return err
	}

	if event.Title != nil {
		if *event.Title == "" {
			return goerrors.New("title must not be empty", goerrors.CategoryValidation).
				WithCode(goerrors.CodeBadRequest)
		}
		record.Title = *event.Title
	}

	if event.Description != nil {
		record.Description = *event.Description
	}

	if event.Completed != nil {
		record.Completed = *event.Completed
	}

	record, err = h.repo.Tasks().UpdateOwned(ctx, record)
	if err != nil {
		return err
	}

	if event.OnResponse != nil {
		event.OnResponse(record)
	}

	return nil
}

type DeleteTaskMessage struct {
	ActingUserID int64 `json:"-"`
	TaskID       int64 `json:"-"`
}

func (e DeleteTaskMessage) Type() string { return "task.delete" }

type DeleteTaskHandler struct {
	repo RepositoryManager
}

func NewDeleteTaskHandler(repo RepositoryManager) *DeleteTaskHandler {
	return &DeleteTaskHandler{repo: repo}
}

func (h *DeleteTaskHandler) Execute(ctx context.Context, event DeleteTaskMessage) error {
	record, err := h.repo.Tasks().GetByID(ctx, event.TaskID)
	if err != nil {
		return err
	}

	if err := AuthorizeOrNotFound(event.ActingUserID, record.UserID); err != nil {
		return err
	}

	return h.repo.Tasks().DeleteOwned(ctx, record.ID, record.UserID)
}
