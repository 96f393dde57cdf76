package handler

import (
	"strconv"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// --- Requests ---

type loginRequest struct {
	Correo   string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// registerRequest leaves every password rule to the use case so that a
// taken email is reported before a short or missing password.
type registerRequest struct {
	Nombre   string `json:"nombre" validate:"trimmin=2,max=100"`
	Correo   string `json:"correo" validate:"required,email,max=100"`
	Password string `json:"password"`
}

type createAccountRequest struct {
	Nombre   string `json:"nombre" validate:"trimmin=2,max=100"`
	Correo   string `json:"correo" validate:"required,email,max=100"`
	Password string `json:"password" validate:"min=6"`
	Rol      string `json:"rol" validate:"omitempty,oneof=admin user"`
}

type updateAccountRequest struct {
	Nombre string `json:"nombre" validate:"trimmin=2,max=100"`
	Correo string `json:"correo" validate:"required,email,max=100"`
	Rol    string `json:"rol" validate:"required,oneof=admin user"`
}

type catalogItemRequest struct {
	Nombre      string   `json:"nombre" validate:"trimmin=3,max=100"`
	Descripcion string   `json:"descripcion" validate:"trimmin=10"`
	Precio      *float64 `json:"precio" validate:"required,gte=0"`
	Icono       string   `json:"icono" validate:"required,icon,max=50"`
	Stock       *bool    `json:"stock" validate:"required"`
	Activo      *bool    `json:"activo"`
}

func (r *catalogItemRequest) toInput() usecase.CatalogItemInput {
	return usecase.CatalogItemInput{
		Name:        r.Nombre,
		Description: r.Descripcion,
		Price:       *r.Precio,
		InStock:     *r.Stock,
		Icon:        r.Icono,
		Active:      r.Activo,
	}
}

// --- Responses ---

// accountResponse is the public account projection. It never carries the hash.
type accountResponse struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Correo string `json:"correo"`
	Rol    string `json:"rol"`
}

func toAccountResponse(a *entity.Account) accountResponse {
	return accountResponse{
		ID:     a.ID,
		Nombre: a.Name,
		Correo: a.Email,
		Rol:    a.Role.String(),
	}
}

type identityResponse struct {
	ID     int64  `json:"id"`
	Correo string `json:"correo"`
	Rol    string `json:"rol"`
}

type catalogItemResponse struct {
	ID          int64   `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
	Stock       bool    `json:"stock"`
	Icono       string  `json:"icono"`
	Activo      bool    `json:"activo"`
}

// catalogItemAdminResponse adds the bookkeeping timestamps shown to admins.
type catalogItemAdminResponse struct {
	catalogItemResponse
	FechaCreacion      time.Time `json:"fecha_creacion"`
	FechaActualizacion time.Time `json:"fecha_actualizacion"`
}

func toCatalogItemResponse(item *entity.CatalogItem) catalogItemResponse {
	return catalogItemResponse{
		ID:          item.ID,
		Nombre:      item.Name,
		Descripcion: item.Description,
		Precio:      item.Price,
		Stock:       item.InStock,
		Icono:       item.Icon,
		Activo:      item.Active,
	}
}

func toCatalogItemAdminResponse(item *entity.CatalogItem) catalogItemAdminResponse {
	return catalogItemAdminResponse{
		catalogItemResponse: toCatalogItemResponse(item),
		FechaCreacion:       item.CreatedAt,
		FechaActualizacion:  item.UpdatedAt,
	}
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}

	return out
}

// --- Helpers ---

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrInvalidBody.WrapMessage(err.Error())
	}

	return c.Validate(req)
}

// parseID reads a positive numeric :id path parameter.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.ErrInvalidID
	}

	return id, nil
}
