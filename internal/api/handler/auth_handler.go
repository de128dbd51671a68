package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kafebilyar/api/internal/api/metrics"
	"github.com/kafebilyar/api/internal/core/domain"
	"github.com/kafebilyar/api/internal/core/ports"
)

const tokenTypeBearer = "bearer"

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a customer account and returns its first access token.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Customer registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, cust, err := h.authService.RegisterCustomer(c.Request().Context(), ports.RegisterCustomerInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerOutcome(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues(domain.PrincipalCustomer).Inc()

	return c.JSON(http.StatusCreated, tokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		User: registeredCustomer{
			ID:    cust.ID,
			Email: cust.Email,
			Name:  cust.Name,
			Phone: cust.Phone,
		},
	})
}

// Login authenticates a customer by email and password.
//
// @Summary      Customer login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Customer credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, cust, err := h.authService.LoginCustomer(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(domain.PrincipalCustomer, loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(domain.PrincipalCustomer, "success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues(domain.PrincipalCustomer).Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		User: customerAccount{
			ID:               cust.ID,
			Email:            cust.Email,
			Name:             cust.Name,
			Phone:            cust.Phone,
			TotalBookings:    cust.TotalBookings,
			TotalHoursPlayed: cust.TotalHoursPlayed,
			Rating:           cust.Rating,
		},
	})
}

// AdminLogin authenticates an admin by username and password.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminLoginRequest  true  "Admin credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, admin, err := h.authService.LoginAdmin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(domain.PrincipalAdmin, loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(domain.PrincipalAdmin, "success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues(domain.PrincipalAdmin).Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		User: adminAccount{
			ID:       admin.ID,
			Username: admin.Username,
			Name:     admin.Name,
			Email:    admin.Email,
			Role:     admin.Role,
		},
	})
}

func registerOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, domain.ErrMissingFields):
		return "invalid"
	default:
		return "error"
	}
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAdminInactive):
		return "inactive"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}
