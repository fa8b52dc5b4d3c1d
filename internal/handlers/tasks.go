package handlers

import (
	"net/http"

	"ipfolio/internal/models"

	"github.com/labstack/echo/v4"
)

type TaskRequest struct {
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	DueDate  string `json:"due_date"`
	MatterID string `json:"matter_id"`
	AssetID  string `json:"asset_id"`
	ClientID string `json:"client_id"`
}

func (r *TaskRequest) toModel() (models.Task, error) {
	due, err := parseDate(r.DueDate)
	if err != nil {
		return models.Task{}, err
	}
	status := r.Status
	if status == "" {
		status = "pending"
	}
	priority := r.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	return models.Task{
		Title:    r.Title,
		Status:   status,
		Priority: priority,
		DueDate:  due,
		MatterID: r.MatterID,
		AssetID:  r.AssetID,
		ClientID: r.ClientID,
	}, nil
}

func CreateTask(c echo.Context) error {
	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Task title is required"})
	}

	task, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid date format"})
	}

	return c.JSON(http.StatusCreated, session(c).CreateTask(task))
}

func GetTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, session(c).ListTasks())
}

func UpdateTask(c echo.Context) error {
	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Task title is required"})
	}

	task, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid date format"})
	}
	task.ID = c.Param("id")

	updated, err := session(c).UpdateTask(task)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func DeleteTask(c echo.Context) error {
	if err := session(c).DeleteTask(c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted"})
}
