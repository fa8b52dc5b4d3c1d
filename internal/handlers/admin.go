package handlers

import (
	"net/http"

	"ipfolio/internal/models"
	"ipfolio/utils"

	"github.com/labstack/echo/v4"
)

type OrganizationRequest struct {
	Name      string `json:"name"`
	PackageID string `json:"package_id"`
}

type PackageRequest struct {
	Name       string `json:"name"`
	MaxUsers   int    `json:"max_users"`
	MaxAssets  int    `json:"max_assets"`
	PriceCents int    `json:"price_cents"`
}

type OrgUserRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	OrgID string `json:"org_id"`
}

func CreateOrganization(c echo.Context) error {
	var req OrganizationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Organization name is required"})
	}

	org := admin.CreateOrganization(models.Organization{
		Name:      req.Name,
		PackageID: req.PackageID,
	})
	return c.JSON(http.StatusCreated, org)
}

func GetOrganizations(c echo.Context) error {
	return c.JSON(http.StatusOK, admin.ListOrganizations())
}

func DeleteOrganization(c echo.Context) error {
	if err := admin.DeleteOrganization(c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Organization deleted"})
}

func CreatePackage(c echo.Context) error {
	var req PackageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Package name is required"})
	}

	pkg := admin.CreatePackage(models.SubscriptionPackage{
		Name:       req.Name,
		MaxUsers:   req.MaxUsers,
		MaxAssets:  req.MaxAssets,
		PriceCents: req.PriceCents,
	})
	return c.JSON(http.StatusCreated, pkg)
}

func GetPackages(c echo.Context) error {
	return c.JSON(http.StatusOK, admin.ListPackages())
}

func DeletePackage(c echo.Context) error {
	if err := admin.DeletePackage(c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Package deleted"})
}

func CreateOrgUser(c echo.Context) error {
	var req OrgUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email is required"})
	}
	if req.OrgID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Organization is required"})
	}
	role := req.Role
	if role == "" {
		role = "member"
	}

	user := admin.CreateUser(models.OrgUser{
		Email: req.Email,
		Role:  role,
		OrgID: req.OrgID,
	})

	// Invite code for the user's first login; handed to the admin, never
	// stored.
	inviteCode, err := utils.GenerateRandomAlphaNumeric(12)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate invite code"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user":        user,
		"invite_code": inviteCode,
	})
}

func GetOrgUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, admin.ListUsers(c.QueryParam("org_id")))
}

func DeleteOrgUser(c echo.Context) error {
	if err := admin.DeleteUser(c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User removed"})
}
