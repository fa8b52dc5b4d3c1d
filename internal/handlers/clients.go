package handlers

import (
	"net/http"

	"ipfolio/internal/models"

	"github.com/labstack/echo/v4"
)

type ClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
}

func CreateClient(c echo.Context) error {
	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Client name is required"})
	}

	client := session(c).CreateClient(models.Client{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
	})
	return c.JSON(http.StatusCreated, client)
}

func GetClients(c echo.Context) error {
	return c.JSON(http.StatusOK, session(c).ListClients())
}

func UpdateClient(c echo.Context) error {
	id := c.Param("id")
	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Client name is required"})
	}

	client, err := session(c).UpdateClient(models.Client{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
	})
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func DeleteClient(c echo.Context) error {
	if err := session(c).DeleteClient(c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Client deleted"})
}
