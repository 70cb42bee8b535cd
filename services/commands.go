package services

import (
	"fmt"
	"task-lab/domain"
	"task-lab/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CreateTaskCommand struct {
	OwnerID     string `validate:"required"`
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
}

type UpdateTaskCommand struct {
	OwnerID     string  `validate:"required"`
	TaskID      string  `validate:"required"`
	Title       *string `validate:"omitnil,min=1,max=200"`
	Description *string `validate:"omitnil,max=2000"`
	Completed   *bool
}

func (c UpdateTaskCommand) Patch() domain.TaskPatch {
	return domain.TaskPatch{Title: c.Title, Description: c.Description, Completed: c.Completed}
}

type ListTasksCommand struct {
	OwnerID   string `validate:"required"`
	Page      int    `validate:"gte=0"`
	Limit     int    `validate:"gte=0"`
	Completed *bool
}

type SearchTasksCommand struct {
	OwnerID string `validate:"required"`
	Query   string `validate:"required,max=200"`
	Limit   int    `validate:"gte=0"`
}

type JoinRoomCommand struct {
	Room string `validate:"required,max=64"`
}

func validateCommand(cmd any) error {
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	return nil
}
