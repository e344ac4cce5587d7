// Package llm calls an OpenAI-compatible reasoning API to turn the
// analyzer's compact context into a structured bottleneck report.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/loglens/loglens/pkg/models"
)

const systemPrompt = `You are an expert Performance Engineer AI. Your task is to analyze the provided raw application logs and metrics.
Identify performance bottlenecks, their severity, root causes, and suggest technical fixes.

You must output valid JSON only. No markdown formatting. Structure:
{
  "summary": "Brief executive summary of the performance state.",
  "overall_health_score": Number (0-100),
  "bottlenecks": [
    {
      "title": "Short title of the bottleneck",
      "severity": "Critical" | "High" | "Medium" | "Low",
      "description": "Detailed explanation of what is happening.",
      "root_cause": "The underlying technical reason (e.g., Missing Index, Memory Leak).",
      "recommendation": "Specific technical fix (e.g., 'Add composite index on col_a, col_b').",
      "affected_component": "Database" | "API" | "Infrastructure" | "Code"
    }
  ],
  "metrics_summary": {
    "cpu_peak": "XX%",
    "memory_peak": "XX MB/GB",
    "db_connections": "Current/Max"
  }
}`

const userInstruction = "Please reason about the following pre-analyzed report and produce the JSON structure described.\n\n"

// ErrUnavailable indicates all reasoning endpoints are down
var ErrUnavailable = errors.New("all reasoning endpoints unavailable")

// ErrMalformedReply indicates the model returned something other than the
// requested JSON structure
var ErrMalformedReply = errors.New("reasoning reply is not valid JSON")

// errTransient marks per-endpoint failures worth retrying on the next
// endpoint in the chain: dial failures and gateway-class statuses.
var errTransient = errors.New("transient endpoint failure")

// Endpoint represents a single reasoning provider
type Endpoint struct {
	URL    string
	Model  string
	APIKey string
}

// Client calls reasoning APIs with fallback support (OpenAI-compatible
// chat completions format)
type Client struct {
	endpoints []Endpoint
	client    *http.Client
}

// NewClient creates a reasoning client with a fallback chain
func NewClient(endpoints []Endpoint) *Client {
	return &Client{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// Reason sends the pre-analyzed report to the model and returns the parsed
// bottleneck report plus total API latency in milliseconds. Endpoints are
// tried in order; ErrUnavailable is returned only if ALL fail. A reply
// that is not the requested JSON stops the chain immediately.
func (c *Client) Reason(ctx context.Context, report string) (*models.Reasoning, int64, error) {
	if len(c.endpoints) == 0 {
		return nil, 0, errors.New("no reasoning endpoints configured")
	}

	var lastErr error
	var totalLatency int64

	for i, ep := range c.endpoints {
		result, latency, err := c.tryEndpoint(ctx, ep, report)
		totalLatency += latency

		if err == nil {
			if i > 0 {
				log.Printf("reasoning fallback: endpoint %d (%s) succeeded after %d failures", i+1, ep.Model, i)
			}
			return result, totalLatency, nil
		}

		lastErr = err
		if errors.Is(err, errTransient) {
			log.Printf("reasoning endpoint %d (%s) unavailable: %v, trying next...", i+1, ep.Model, err)
			continue
		}

		return nil, totalLatency, err
	}

	return nil, totalLatency, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *Client) tryEndpoint(ctx context.Context, ep Endpoint, report string) (*models.Reasoning, int64, error) {
	start := time.Now()

	reqBody := map[string]interface{}{
		"model": ep.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userInstruction + report},
		},
		"max_tokens": 2048,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, 0, err
	}

	url := strings.TrimSuffix(ep.URL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ep.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		latency := time.Since(start).Milliseconds()
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return nil, latency, fmt.Errorf("%w: connection failed: %v", errTransient, err)
		}
		return nil, latency, err
	}
	defer resp.Body.Close()

	latency := time.Since(start).Milliseconds()

	// Gateway-class failures are worth retrying on the next endpoint.
	if resp.StatusCode == http.StatusBadGateway ||
		resp.StatusCode == http.StatusServiceUnavailable ||
		resp.StatusCode == http.StatusGatewayTimeout {
		return nil, latency, fmt.Errorf("%w: HTTP %d", errTransient, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, latency, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, latency, err
	}

	if len(apiResp.Choices) == 0 {
		return nil, latency, fmt.Errorf("empty response from API")
	}

	var result models.Reasoning
	if err := json.Unmarshal([]byte(apiResp.Choices[0].Message.Content), &result); err != nil {
		return nil, latency, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	return &result, latency, nil
}

// IsUnavailable checks if the error indicates all endpoints are down
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsMalformedReply checks if the error indicates a non-JSON model reply
func IsMalformedReply(err error) bool {
	return errors.Is(err, ErrMalformedReply)
}
