package task

import (
	"errors"
	"fmt"
	"time"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"

	dueDateLayout = "2006-01-02"
)

var (
	ErrNotFound   = errors.New("task not found")
	ErrValidation = errors.New("invalid task")
)

type Task struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	DueDate    time.Time `json:"dueDate"`
	Priority   int       `json:"priority"`
	Status     string    `json:"status"`
	PostedDate time.Time `json:"postedDate"`
	OwnerID    int64     `json:"ownerId"`
}

type CreateTaskRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=140"`
	DueDate  string `json:"dueDate" binding:"required,datetime=2006-01-02"`
	Priority int    `json:"priority" binding:"required,min=1,max=10"`
}

// Validate re-checks the request outside the HTTP binding path, so callers
// that construct requests directly get the same rules.
func (r CreateTaskRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	if r.Priority < 1 || r.Priority > 10 {
		return fmt.Errorf("%w: priority must be between 1 and 10", ErrValidation)
	}

	if _, err := r.ParsedDueDate(); err != nil {
		return fmt.Errorf("%w: dueDate must be a valid YYYY-MM-DD date", ErrValidation)
	}

	return nil
}

func (r CreateTaskRequest) ParsedDueDate() (time.Time, error) {
	return time.Parse(dueDateLayout, r.DueDate)
}

// NewFromCreateRequest builds a Task from the incoming DTO. Status and
// posted date are forced here, never taken from the client.
func NewFromCreateRequest(req CreateTaskRequest, ownerID int64) (Task, error) {
	if err := req.Validate(); err != nil {
		return Task{}, err
	}

	due, err := req.ParsedDueDate()

	if err != nil {
		return Task{}, fmt.Errorf("%w: dueDate must be a valid YYYY-MM-DD date", ErrValidation)
	}

	return Task{
		Name:       req.Name,
		DueDate:    due,
		Priority:   req.Priority,
		Status:     StatusOpen,
		PostedDate: time.Now().UTC(),
		OwnerID:    ownerID,
	}, nil
}
