package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CatalogHandler serves /api/servicios.
type CatalogHandler struct {
	uc usecase.CatalogUsecase
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// List returns the public catalog, without timestamps.
func (h *CatalogHandler) List(c echo.Context) error {
	items, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, "Servicios obtenidos exitosamente", mapSlice(items, toCatalogItemResponse))
}

// ListAll returns every item, inactive ones included, with timestamps.
func (h *CatalogHandler) ListAll(c echo.Context) error {
	items, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, "Servicios obtenidos exitosamente", mapSlice(items, toCatalogItemAdminResponse))
}

func (h *CatalogHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	item, err := h.uc.GetActive(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "Servicio obtenido exitosamente", toCatalogItemResponse(item))
}

func (h *CatalogHandler) Create(c echo.Context) error {
	var req catalogItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, "Servicio creado exitosamente", toCatalogItemResponse(item))
}

func (h *CatalogHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req catalogItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.uc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "Servicio actualizado exitosamente", toCatalogItemResponse(item))
}

// Delete hard-deletes an item and returns the removed row.
func (h *CatalogHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	item, err := h.uc.Delete(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "Servicio eliminado exitosamente", toCatalogItemResponse(item))
}
