package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pocket-planner/internal/model"
	"pocket-planner/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Text       string
	Priority   model.Priority
	DueDate    *time.Time
	Complexity *float64
	Subtasks   []string
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
	loc      *time.Location
}

func NewTaskService(taskRepo *repository.TaskRepository, loc *time.Location) *TaskService {
	return &TaskService{taskRepo: taskRepo, loc: loc}
}

// CreateTask stores a new task. Due dates are pinned to local noon so
// timezone or DST shifts cannot move them to a neighboring day.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput, now time.Time) (model.Task, error) {
	if input.Text == "" {
		return model.Task{}, fmt.Errorf("text is required")
	}

	task := model.Task{
		Text:       input.Text,
		Priority:   input.Priority,
		Complexity: input.Complexity,
		CreatedAt:  now,
	}
	task = task.Normalized()
	if input.DueDate != nil {
		due := noonIn(*input.DueDate, s.loc)
		task.DueDate = &due
	}
	for _, text := range input.Subtasks {
		if text == "" {
			continue
		}
		task.Subtasks = append(task.Subtasks, model.Subtask{ID: uuid.NewString(), Text: text})
	}

	if _, err := s.taskRepo.Put(ctx, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) ListAll(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.GetAll(ctx)
}

// ToggleComplete flips a task's completion state.
func (s *TaskService) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	task, ok, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, fmt.Errorf("task %s not found", id)
	}
	task.Completed = !task.Completed
	if _, err := s.taskRepo.Put(ctx, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// CyclePriority advances P1 -> P2 -> P3 -> P4 -> P1.
func (s *TaskService) CyclePriority(ctx context.Context, id string) (model.Task, error) {
	task, ok, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, fmt.Errorf("task %s not found", id)
	}
	task.Priority = task.Priority.Next()
	if _, err := s.taskRepo.Put(ctx, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// ToggleSubtask flips one subtask's checkbox.
func (s *TaskService) ToggleSubtask(ctx context.Context, taskID, subtaskID string) (model.Task, error) {
	task, ok, err := s.taskRepo.Get(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, fmt.Errorf("task %s not found", taskID)
	}
	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Completed = !task.Subtasks[i].Completed
			found = true
			break
		}
	}
	if !found {
		return model.Task{}, fmt.Errorf("subtask %s not found on task %s", subtaskID, taskID)
	}
	if _, err := s.taskRepo.Put(ctx, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// LinkNote attaches a note reference to the task. Linking twice is a
// no-op.
func (s *TaskService) LinkNote(ctx context.Context, taskID, noteID string) (model.Task, error) {
	task, ok, err := s.taskRepo.Get(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, fmt.Errorf("task %s not found", taskID)
	}
	for _, id := range task.NoteIDs {
		if id == noteID {
			return task, nil
		}
	}
	task.NoteIDs = append(task.NoteIDs, noteID)
	if _, err := s.taskRepo.Put(ctx, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// DeleteTask soft-deletes: the task moves to the deleted collection and
// can be restored from there.
func (s *TaskService) DeleteTask(ctx context.Context, id string, now time.Time) error {
	return s.taskRepo.SoftDelete(ctx, id, now)
}

// RestoreTask brings a soft-deleted task back.
func (s *TaskService) RestoreTask(ctx context.Context, id string) (model.Task, bool, error) {
	return s.taskRepo.Restore(ctx, id)
}
