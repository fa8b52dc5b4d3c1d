package handlers

import (
	"net/http"

	"ipfolio/internal/models"

	"github.com/labstack/echo/v4"
)

type AssetRequest struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	RegistrationDate string `json:"registration_date"`
	ExpiryDate       string `json:"expiry_date"`
	Jurisdiction     string `json:"jurisdiction"`
	Status           string `json:"status"`
	ClientID         string `json:"client_id"`
}

func validAssetType(t string) bool {
	switch t {
	case models.AssetPatent, models.AssetTrademark, models.AssetCopyright, models.AssetTradeSecret:
		return true
	}
	return false
}

func (r *AssetRequest) toModel() (models.Asset, error) {
	registered, err := parseDate(r.RegistrationDate)
	if err != nil {
		return models.Asset{}, err
	}
	expiry, err := parseDate(r.ExpiryDate)
	if err != nil {
		return models.Asset{}, err
	}
	status := r.Status
	if status == "" {
		status = "active"
	}
	return models.Asset{
		Name:             r.Name,
		Type:             r.Type,
		RegistrationDate: registered,
		ExpiryDate:       expiry,
		Jurisdiction:     r.Jurisdiction,
		Status:           status,
		ClientID:         r.ClientID,
	}, nil
}

func CreateAsset(c echo.Context) error {
	var req AssetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Asset name is required"})
	}
	if !validAssetType(req.Type) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid asset type"})
	}

	asset, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid date format"})
	}

	return c.JSON(http.StatusCreated, session(c).CreateAsset(asset))
}

func GetAssets(c echo.Context) error {
	return c.JSON(http.StatusOK, session(c).ListAssets())
}

func GetAsset(c echo.Context) error {
	asset, err := session(c).GetAsset(c.Param("id"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, asset)
}

func UpdateAsset(c echo.Context) error {
	var req AssetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Asset name is required"})
	}
	if !validAssetType(req.Type) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid asset type"})
	}

	asset, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid date format"})
	}
	asset.ID = c.Param("id")

	updated, err := session(c).UpdateAsset(asset)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func DeleteAsset(c echo.Context) error {
	if err := session(c).DeleteAsset(c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Asset deleted"})
}
