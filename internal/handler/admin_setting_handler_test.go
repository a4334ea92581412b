package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/handler"
	"github.com/aurine/aurine-api/internal/service"
)

type mockSettingService struct {
	lastKey    string
	lastValue  json.RawMessage
	lastValues map[string]json.RawMessage
	setting    dto.SettingResponse
	list       dto.SettingListResponse
	err        error
}

func (m *mockSettingService) Get(_ context.Context, key string) (dto.SettingResponse, error) {
	m.lastKey = key
	if m.err != nil {
		return dto.SettingResponse{}, m.err
	}
	return m.setting, nil
}

func (m *mockSettingService) List(_ context.Context) (dto.SettingListResponse, error) {
	if m.err != nil {
		return dto.SettingListResponse{}, m.err
	}
	return m.list, nil
}

func (m *mockSettingService) Set(_ context.Context, key string, value json.RawMessage, _ service.ActivityActor) (dto.SettingResponse, error) {
	m.lastKey = key
	m.lastValue = value
	if m.err != nil {
		return dto.SettingResponse{}, m.err
	}
	return m.setting, nil
}

func (m *mockSettingService) SetMultiple(_ context.Context, values map[string]json.RawMessage, _ service.ActivityActor) (dto.SettingListResponse, error) {
	m.lastValues = values
	if m.err != nil {
		return dto.SettingListResponse{}, m.err
	}
	return m.list, nil
}

func (m *mockSettingService) Unset(_ context.Context, key string, _ service.ActivityActor) error {
	m.lastKey = key
	return m.err
}

func newSettingApp(svc *mockSettingService) *fiber.App {
	app := fiber.New()
	handler.NewAdminSettingHandler(svc, testLogger()).Register(app.Group("/api/admin/settings"))
	return app
}

func TestSettingHandler_PutWritesKey(t *testing.T) {
	svc := &mockSettingService{setting: dto.SettingResponse{Key: "store.theme", Value: json.RawMessage(`"dark"`)}}
	app := newSettingApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/settings/store.theme", strings.NewReader(`{"value":"dark"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "store.theme", svc.lastKey)
	require.JSONEq(t, `"dark"`, string(svc.lastValue))
}

func TestSettingHandler_PutRejectsBadValue(t *testing.T) {
	svc := &mockSettingService{err: service.ErrSettingInvalidJSON}
	app := newSettingApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/settings/store.theme", strings.NewReader(`{"value":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSettingHandler_BulkPut(t *testing.T) {
	svc := &mockSettingService{list: dto.SettingListResponse{Items: []dto.SettingResponse{{Key: "a"}, {Key: "b"}}}}
	app := newSettingApp(svc)

	body := `{"values":{"a":1,"b":"two"}}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, svc.lastValues, 2)
}

func TestSettingHandler_BulkPutRequiresValues(t *testing.T) {
	app := newSettingApp(&mockSettingService{})

	req := httptest.NewRequest(http.MethodPut, "/api/admin/settings", strings.NewReader(`{"values":{}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSettingHandler_BulkPutPartialFailure(t *testing.T) {
	svc := &mockSettingService{err: &service.PartialApplyError{
		Applied:   []string{"a"},
		FailedKey: "b",
		Err:       service.ErrSettingInvalidJSON,
	}}
	app := newSettingApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/settings", strings.NewReader(`{"values":{"a":1,"b":2}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Contains(t, body.Message, `"b"`)
}

func TestSettingHandler_DeleteMissingKey(t *testing.T) {
	svc := &mockSettingService{err: service.ErrSettingNotFound}
	app := newSettingApp(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/settings/store.gone", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
