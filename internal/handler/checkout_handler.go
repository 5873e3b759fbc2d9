package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkoutのHTTP
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type DeliveryAddressRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

func (r DeliveryAddressRequest) toModel() model.DeliveryAddress {
	return model.DeliveryAddress{
		FullName:   r.FullName,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.PostalCode,
	}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/checkout")
	g.Use(middleware.Session())
	g.Use(middleware.OptionalAuthJWT(cfg))

	g.PUT("/address", h.saveAddress)
	g.POST("", h.finalize)
}

// 配送先ドラフトの保存
func (h *CheckoutHandler) saveAddress(c echo.Context) error {
	var req DeliveryAddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SaveAddressDraft(c.Request().Context(), req.toModel()); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "address saved"})
}

// カートから注文を確定
func (h *CheckoutHandler) finalize(c echo.Context) error {
	var req DeliveryAddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Finalize(c.Request().Context(), usecase.FinalizeInput{
		Address: req.toModel(),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}
