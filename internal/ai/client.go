// Package ai talks to the external analysis service that scores interview
// recordings and drafts interview questions. The service itself is a black
// box; this client only owns the HTTP contract.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smarthr/portal/internal/transport"
)

type Analyzer interface {
	AnalyzeRecording(ctx context.Context, req AnalyzeRequest) (*Analysis, error)
	GenerateQuestions(ctx context.Context, req QuestionsRequest) ([]transport.GeneratedQuestion, error)
}

type AnalyzeRequest struct {
	InterviewID uint   `json:"interview_id"`
	VideoPath   string `json:"video_path"`
	Resume      string `json:"resume,omitempty"`
}

type Analysis struct {
	PredictionScore *float64       `json:"prediction_score"`
	Data            map[string]any `json:"data"`
}

type QuestionsRequest struct {
	InterviewID   uint   `json:"interview_id"`
	Resume        string `json:"resume,omitempty"`
	JobTitle      string `json:"job_title"`
	Qualification string `json:"qualification"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(serviceURL string) *Client {
	return &Client{
		baseURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) AnalyzeRecording(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	var result Analysis
	if err := c.post(ctx, "/analyze", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GenerateQuestions(ctx context.Context, req QuestionsRequest) ([]transport.GeneratedQuestion, error) {
	var result struct {
		Questions []transport.GeneratedQuestion `json:"questions"`
	}
	if err := c.post(ctx, "/generate-questions", req, &result); err != nil {
		return nil, err
	}
	return result.Questions, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("analysis service status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
