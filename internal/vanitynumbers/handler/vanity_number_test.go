package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vanity/internal/vanitynumbers/service"
	"vanity/internal/vanitynumbers/validator"
	apperrors "vanity/pkg/errors"
	httputil "vanity/pkg/http"
	"vanity/pkg/logger"
	"vanity/pkg/model"
)

type mockVanityService struct {
	generateFn   func(ctx context.Context, rawPhone string) (*model.VanityResult, error)
	candidatesFn func(ctx context.Context, rawPhone string) (*model.CandidatesResponse, error)
	getFn        func(ctx context.Context, rawPhone string) (*model.VanityRecord, error)
	listFn       func(ctx context.Context, limit int) ([]*model.VanityRecord, error)
}

func (m *mockVanityService) Generate(ctx context.Context, rawPhone string) (*model.VanityResult, error) {
	return m.generateFn(ctx, rawPhone)
}

func (m *mockVanityService) Candidates(ctx context.Context, rawPhone string) (*model.CandidatesResponse, error) {
	return m.candidatesFn(ctx, rawPhone)
}

func (m *mockVanityService) GetByPhone(ctx context.Context, rawPhone string) (*model.VanityRecord, error) {
	return m.getFn(ctx, rawPhone)
}

func (m *mockVanityService) ListRecent(ctx context.Context, limit int) ([]*model.VanityRecord, error) {
	return m.listFn(ctx, limit)
}

var _ service.VanityService = (*mockVanityService)(nil)

func newRouter(svc service.VanityService) *httprouter.Router {
	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	router := httprouter.New()
	NewVanityHandler(svc, validator.NewVanityValidator(), log).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerate(t *testing.T) {
	var gotPhone string
	svc := &mockVanityService{generateFn: func(_ context.Context, rawPhone string) (*model.VanityResult, error) {
		gotPhone = rawPhone
		return &model.VanityResult{
			VanityRecord: model.VanityRecord{Phone: "+18005683000", Outcome: model.OutcomeGenerated, Selected: []string{"800-LOVE-000"}},
			Candidates:   []string{"800-LOVE-000"},
			Persisted:    true,
		}, nil
	}}

	rec := serve(newRouter(svc), http.MethodPost, "/api/v1/vanity-numbers", `{"phone_number":"(800) 568-3000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "(800) 568-3000", gotPhone)

	var body struct {
		Data struct {
			Phone    string   `json:"phone"`
			Outcome  string   `json:"outcome"`
			Selected []string `json:"selected"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "+18005683000", body.Data.Phone)
	assert.Equal(t, []string{"800-LOVE-000"}, body.Data.Selected)
}

func TestGenerate_BadRequests(t *testing.T) {
	svc := &mockVanityService{generateFn: func(context.Context, string) (*model.VanityResult, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	router := newRouter(svc)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeInvalidInput},
		{name: "not JSON", body: "phone=1", wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeInvalidInput},
		{name: "unknown field", body: `{"phone":"8005683000"}`, wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeInvalidInput},
		{name: "missing phone", body: `{}`, wantStatus: http.StatusUnprocessableEntity, wantCode: apperrors.CodeValidation},
		{name: "unusable phone", body: `{"phone_number":"555-1234"}`, wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeInvalidPhoneFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodPost, "/api/v1/vanity-numbers", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestCandidates(t *testing.T) {
	svc := &mockVanityService{candidatesFn: func(_ context.Context, rawPhone string) (*model.CandidatesResponse, error) {
		return &model.CandidatesResponse{Digits: "8005683000", Candidates: []string{"800-LOVE-000"}, Count: 1}, nil
	}}

	rec := serve(newRouter(svc), http.MethodPost, "/api/v1/candidates", `{"phone_number":"8005683000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"candidates":["800-LOVE-000"]`)
}

func TestGetByPhone(t *testing.T) {
	svc := &mockVanityService{getFn: func(_ context.Context, rawPhone string) (*model.VanityRecord, error) {
		if rawPhone == "8005683000" {
			return &model.VanityRecord{Phone: "+18005683000"}, nil
		}
		return nil, apperrors.NotFoundWithID("Vanity record", rawPhone)
	}}
	router := newRouter(svc)

	rec := serve(router, http.MethodGet, "/api/v1/vanity-numbers/8005683000", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"phone":"+18005683000"`)

	rec = serve(router, http.MethodGet, "/api/v1/vanity-numbers/8005550000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRecent(t *testing.T) {
	var gotLimit int
	svc := &mockVanityService{listFn: func(_ context.Context, limit int) ([]*model.VanityRecord, error) {
		gotLimit = limit
		return []*model.VanityRecord{{Phone: "+18005683000"}, {Phone: "+12125550199"}}, nil
	}}
	router := newRouter(svc)

	rec := serve(router, http.MethodGet, "/api/v1/vanity-numbers?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotLimit)

	var body httputil.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)

	rec = serve(router, http.MethodGet, "/api/v1/vanity-numbers?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_ServiceError(t *testing.T) {
	svc := &mockVanityService{generateFn: func(context.Context, string) (*model.VanityResult, error) {
		return nil, apperrors.Timeout("Candidate generation did not finish in time")
	}}

	rec := serve(newRouter(svc), http.MethodPost, "/api/v1/vanity-numbers", `{"phone_number":"8005683000"}`)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}
