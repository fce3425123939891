package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vanity/internal/vanitynumbers/service"
	apperrors "vanity/pkg/errors"
	"vanity/pkg/kafka"
	"vanity/pkg/logger"
	"vanity/pkg/model"
	"vanity/pkg/vanity"
)

const connectEvent = `{
  "Name": "ContactFlowEvent",
  "Details": {
    "ContactData": {
      "ContactId": "c0ffee-42",
      "Channel": "VOICE",
      "CustomerEndpoint": {"Address": "+18005683000", "Type": "TELEPHONE_NUMBER"},
      "SystemEndpoint": {"Address": "+18885550100", "Type": "TELEPHONE_NUMBER"}
    },
    "Parameters": {}
  }
}`

type mockVanityService struct {
	service.VanityService
	generateFn func(ctx context.Context, rawPhone string) (*model.VanityResult, error)
}

func (m *mockVanityService) Generate(ctx context.Context, rawPhone string) (*model.VanityResult, error) {
	return m.generateFn(ctx, rawPhone)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
}

func selectedResult(selected ...string) *model.VanityResult {
	return &model.VanityResult{VanityRecord: model.VanityRecord{
		Digits:   "8005683000",
		Outcome:  model.OutcomeGenerated,
		Selected: selected,
	}}
}

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent([]byte(connectEvent))
	require.NoError(t, err)
	assert.Equal(t, "+18005683000", event.CallerNumber())
	assert.Equal(t, "c0ffee-42", event.ContactID())

	_, err = ParseEvent([]byte(`{"Details":`))
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = ParseEvent([]byte(`{"Details":{"ContactData":{"CustomerEndpoint":{"Address":"  "}}}}`))
	assert.ErrorIs(t, err, ErrMissingCaller)
}

func TestProcess(t *testing.T) {
	event, err := ParseEvent([]byte(connectEvent))
	require.NoError(t, err)

	t.Run("joins the selection", func(t *testing.T) {
		var corr string
		svc := &mockVanityService{generateFn: func(ctx context.Context, rawPhone string) (*model.VanityResult, error) {
			corr = service.CorrelationID(ctx)
			assert.Equal(t, "+18005683000", rawPhone)
			return selectedResult("800-LOVE-000", "8005-FLOWER-"), nil
		}}
		resp, err := NewProcessor(svc, testLogger()).Process(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, Response{VanityNumberSuccess: true, VanityNumbers: "800-LOVE-000, 8005-FLOWER-"}, resp)
		assert.Equal(t, "c0ffee-42", corr)
	})

	t.Run("ranking unavailable still succeeds", func(t *testing.T) {
		svc := &mockVanityService{generateFn: func(context.Context, string) (*model.VanityResult, error) {
			res := selectedResult()
			res.Outcome = model.OutcomeRankingUnavailable
			return res, nil
		}}
		resp, err := NewProcessor(svc, testLogger()).Process(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, Response{VanityNumberSuccess: true, VanityNumbers: ""}, resp)
	})

	t.Run("no candidates is a failure response", func(t *testing.T) {
		svc := &mockVanityService{generateFn: func(context.Context, string) (*model.VanityResult, error) {
			res := selectedResult()
			res.Outcome = model.OutcomeNoCandidates
			return res, nil
		}}
		resp, err := NewProcessor(svc, testLogger()).Process(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, Failure(), resp)
	})
}

func TestHandler_ContactFlow(t *testing.T) {
	svc := &mockVanityService{generateFn: func(_ context.Context, rawPhone string) (*model.VanityResult, error) {
		if rawPhone == "+18005683000" {
			return selectedResult("800-LOVE-000"), nil
		}
		return nil, apperrors.InvalidPhoneFormat(rawPhone, vanity.ErrInvalidFormat)
	}}
	router := httprouter.New()
	NewHandler(NewProcessor(svc, testLogger()), testLogger()).RegisterRoutes(router)

	tests := []struct {
		name string
		body string
		want Response
	}{
		{name: "valid event", body: connectEvent, want: Response{VanityNumberSuccess: true, VanityNumbers: "800-LOVE-000"}},
		{name: "foreign caller", body: strings.Replace(connectEvent, "+18005683000", "+442079460958", 1), want: Failure()},
		{name: "garbage", body: "nope", want: Failure()},
		{name: "no caller", body: `{"Details":{}}`, want: Failure()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			var got Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandler_OversizedBody(t *testing.T) {
	svc := &mockVanityService{}
	router := httprouter.New()
	NewHandler(NewProcessor(svc, testLogger()), testLogger()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(connectEvent))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 16)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleMessage_Classification(t *testing.T) {
	tests := []struct {
		name  string
		value string
		err   error
		want  kafka.ErrorType
	}{
		{name: "undecodable", value: "{", want: kafka.ErrorTypePermanent},
		{name: "no caller", value: `{"Details":{}}`, want: kafka.ErrorTypePermanent},
		{name: "foreign caller", value: connectEvent, err: apperrors.InvalidPhoneFormat("+44", vanity.ErrInvalidFormat), want: kafka.ErrorTypeBusiness},
		{name: "generation timeout", value: connectEvent, err: apperrors.Timeout("slow"), want: kafka.ErrorTypeTransient},
		{name: "raw deadline", value: connectEvent, err: context.DeadlineExceeded, want: kafka.ErrorTypeTransient},
		{name: "internal failure", value: connectEvent, err: apperrors.Internal("boom", errors.New("x")), want: kafka.ErrorTypePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockVanityService{generateFn: func(context.Context, string) (*model.VanityResult, error) {
				return nil, tt.err
			}}
			err := NewProcessor(svc, testLogger()).HandleMessage(context.Background(), kafka.Message{Value: []byte(tt.value)})
			require.Error(t, err)
			assert.Equal(t, tt.want, kafka.ClassifyError(err))
		})
	}
}

func TestHandleMessage_Success(t *testing.T) {
	var corr string
	svc := &mockVanityService{generateFn: func(ctx context.Context, _ string) (*model.VanityResult, error) {
		corr = service.CorrelationID(ctx)
		return selectedResult("800-LOVE-000"), nil
	}}
	value := strings.Replace(connectEvent, `"ContactId": "c0ffee-42",`, "", 1)
	msg := kafka.Message{Value: []byte(value), Headers: map[string]string{kafka.HeaderCorrelationID: "from-header"}}

	require.NoError(t, NewProcessor(svc, testLogger()).HandleMessage(context.Background(), msg))
	assert.Equal(t, "from-header", corr)
}
