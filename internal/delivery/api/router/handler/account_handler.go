package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler serves /api/usuarios.
type AccountHandler struct {
	uc usecase.AccountUsecase
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.uc.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, "Usuarios obtenidos exitosamente", mapSlice(accounts, toAccountResponse))
}

func (h *AccountHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	account, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "Usuario obtenido exitosamente", toAccountResponse(account))
}

func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.uc.Create(c.Request().Context(), usecase.CreateAccountInput{
		Name:     req.Nombre,
		Email:    req.Correo,
		Password: req.Password,
		Role:     entity.Role(req.Rol),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, "Usuario creado exitosamente", toAccountResponse(account))
}

func (h *AccountHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.uc.Update(c.Request().Context(), id, usecase.UpdateAccountInput{
		Name:  req.Nombre,
		Email: req.Correo,
		Role:  entity.Role(req.Rol),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "Usuario actualizado exitosamente", toAccountResponse(account))
}

// Delete removes an account. The caller comes from the verified token.
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	actor, ok := deliverycontext.GetIdentity(c)
	if !ok {
		return domainerrors.ErrMissingToken
	}

	account, err := h.uc.Delete(c.Request().Context(), actor, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "Usuario eliminado exitosamente", toAccountResponse(account))
}
