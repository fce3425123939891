package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"vanity/pkg/model"
)

const (
	vanityNumbersPath = "/api/v1/vanity-numbers"
	candidatesPath    = "/api/v1/candidates"
	contactFlowPath   = "/api/v1/contact-flow"
	signatureHeader   = "X-Signature-256"
)

// ContactFlowResponse is the contact-flow webhook answer.
type ContactFlowResponse struct {
	VanityNumberSuccess bool   `json:"vanityNumberSuccess"`
	VanityNumbers       string `json:"vanityNumbers"`
}

// VanityClient calls the vanity numbers HTTP API.
type VanityClient struct {
	httpClient *HttpClient
}

func NewVanityClient(baseURL string) *VanityClient {
	return &VanityClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *VanityClient) WaitForHealthy(ctx context.Context, maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(ctx, maxWait)
}

func (c *VanityClient) Generate(ctx context.Context, phone string) (*model.VanityResult, error) {
	resp, err := c.httpClient.POST(ctx, vanityNumbersPath, model.GenerateRequest{PhoneNumber: phone})
	if err != nil {
		return nil, err
	}
	var result model.VanityResult
	if err := decodeData(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *VanityClient) Candidates(ctx context.Context, phone string) (*model.CandidatesResponse, error) {
	resp, err := c.httpClient.POST(ctx, candidatesPath, model.GenerateRequest{PhoneNumber: phone})
	if err != nil {
		return nil, err
	}
	var result model.CandidatesResponse
	if err := decodeData(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *VanityClient) GetByPhone(ctx context.Context, phone string) (*model.VanityRecord, error) {
	resp, err := c.httpClient.GET(ctx, vanityNumbersPath+"/"+url.PathEscape(phone))
	if err != nil {
		return nil, err
	}
	var record model.VanityRecord
	if err := decodeData(resp, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *VanityClient) ListRecent(ctx context.Context, limit int) ([]model.VanityRecord, error) {
	resp, err := c.httpClient.GET(ctx, fmt.Sprintf("%s?limit=%d", vanityNumbersPath, limit))
	if err != nil {
		return nil, err
	}
	var records []model.VanityRecord
	if err := decodeData(resp, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ContactFlow posts a raw contact-flow event. signature is sent as the
// sha256 webhook signature when not empty.
func (c *VanityClient) ContactFlow(ctx context.Context, event []byte, signature string) (*ContactFlowResponse, error) {
	var headers map[string]string
	if signature != "" {
		headers = map[string]string{signatureHeader: "sha256=" + signature}
	}
	resp, err := c.httpClient.POSTRaw(ctx, contactFlowPath, event, headers)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}
	var result ContactFlowResponse
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}
