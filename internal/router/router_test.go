package router_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/config"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/dto"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/handler"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/router"
)

type stubScheduleService struct{}

func (stubScheduleService) Create(_ context.Context, _ uint, _ dto.ScheduleCreateRequest) (dto.ScheduleResponse, error) {
	return dto.ScheduleResponse{}, nil
}

func (stubScheduleService) Get(_ context.Context, _, _ uint) (dto.ScheduleResponse, error) {
	return dto.ScheduleResponse{}, nil
}

func (stubScheduleService) List(_ context.Context, _ uint, _ dto.ScheduleListRequest) ([]dto.ScheduleResponse, error) {
	return nil, nil
}

func (stubScheduleService) Update(_ context.Context, _, _ uint, _ dto.ScheduleUpdateRequest) (dto.ScheduleResponse, error) {
	return dto.ScheduleResponse{}, nil
}

func (stubScheduleService) Reschedule(_ context.Context, _, _ uint, _ dto.RescheduleRequest) (dto.RescheduleResponse, error) {
	return dto.RescheduleResponse{}, nil
}

func (stubScheduleService) Delete(_ context.Context, _, _ uint) error {
	return nil
}

func roleStamp(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_role", role)
		return c.Next()
	}
}

func newRouterApp(role string) *fiber.App {
	app := fiber.New()
	logger := zerolog.New(io.Discard)
	router.Register(app, config.Config{AppName: "test"}, router.Dependencies{
		ScheduleHandler: handler.NewScheduleHandler(stubScheduleService{}, logger),
		JWTMiddleware:   roleStamp(role),
	})
	return app
}

func TestRouterScheduleWritesRequireStaffRole(t *testing.T) {
	app := newRouterApp("student")

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/students/1/schedules/3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/students/1/schedules/3/reschedule", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRouterScheduleWritesAllowStaff(t *testing.T) {
	app := newRouterApp("teacher")

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/students/1/schedules/3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouterScheduleReadsOpenToStudents(t *testing.T) {
	app := newRouterApp("student")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/students/1/schedules/3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
