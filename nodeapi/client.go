// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package nodeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/approval-models/models"
)

// Request types understood by the node
const (
	RequestEvaluateExpression     = "evaluateExpression"
	RequestParsePhasingParams     = "parsePhasingParams"
	RequestGetPhasingAssetControl = "getPhasingAssetControl"
	RequestGetPhasingOnlyControl  = "getPhasingOnlyControl"
)

const (
	DefaultTimeout = 10 * time.Second

	// Node responses for these calls are small; anything larger is a
	// misconfigured endpoint.
	maxResponseBytes = 4 << 20
)

// ErrNodeFailed wraps failures to get a usable answer from the node:
// transport errors, unexpected statuses and undecodable responses.
var ErrNodeFailed = errors.New("node request failed")

// Error is an error reported by the node in the response body
type Error struct {
	Code             int
	Description      string
	SubPoll          string
	SemanticWarnings []string
}

// Error returns the node's description, naming the offending sub poll
// when the node reported one.
func (e *Error) Error() string {
	msg := html.UnescapeString(e.Description)
	if e.SubPoll != "" {
		msg += " for sub poll " + e.SubPoll
	}
	return msg
}

// Detail returns the description followed by any semantic warnings, one
// per line, separated from the description by a blank line.
func (e *Error) Detail() string {
	msg := html.UnescapeString(e.Description)
	if e.SemanticWarnings != nil {
		msg += "\n\n"
		for _, w := range e.SemanticWarnings {
			msg += html.UnescapeString(w) + "\n"
		}
	}
	return msg
}

type errorEnvelope struct {
	ErrorCode        *int     `json:"errorCode"`
	ErrorDescription string   `json:"errorDescription"`
	SubPoll          string   `json:"subPoll"`
	SemanticWarnings []string `json:"semanticWarnings"`
}

// Evaluation is the result of evaluateExpression. Variables is nil when
// the node did not report any; Raw holds the complete response.
type Evaluation struct {
	Variables []string
	Raw       map[string]json.RawMessage
}

type AssetControl struct {
	Asset         string                     `json:"asset"`
	ControlParams map[string]json.RawMessage `json:"controlParams"`
}

type AccountControl struct {
	Account       string                     `json:"account"`
	AccountRS     string                     `json:"accountRS"`
	ControlParams map[string]json.RawMessage `json:"controlParams"`
}

// Client calls the node HTTP API. Every call blocks until the node answers
// or the timeout expires.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// EvaluateExpression asks the node to parse a boolean expression and list
// the variables it references.
func (c *Client) EvaluateExpression(ctx context.Context, expression string, checkOptimality bool) (*Evaluation, error) {
	params := url.Values{}
	params.Set("expression", expression)
	if checkOptimality {
		params.Set("checkOptimality", "true")
	}

	var raw map[string]json.RawMessage
	if err := c.call(ctx, RequestEvaluateExpression, params, &raw); err != nil {
		return nil, err
	}
	delete(raw, "requestProcessingTime")

	ev := &Evaluation{Raw: raw}
	if v, ok := raw["variables"]; ok {
		if err := json.Unmarshal(v, &ev.Variables); err != nil {
			return nil, fmt.Errorf("decode %s variables: %w: %v", RequestEvaluateExpression, ErrNodeFailed, err)
		}
	}
	return ev, nil
}

// ParsePhasingParams normalizes phasing form fields into a model
func (c *Client) ParsePhasingParams(ctx context.Context, params url.Values) (models.ApprovalModel, error) {
	var model models.ApprovalModel
	if err := c.call(ctx, RequestParsePhasingParams, params, &model); err != nil {
		return models.ApprovalModel{}, err
	}
	return model, nil
}

func (c *Client) GetPhasingAssetControl(ctx context.Context, asset string) (*AssetControl, error) {
	params := url.Values{}
	params.Set("asset", asset)

	var ac AssetControl
	if err := c.call(ctx, RequestGetPhasingAssetControl, params, &ac); err != nil {
		return nil, err
	}
	return &ac, nil
}

func (c *Client) GetPhasingOnlyControl(ctx context.Context, account string) (*AccountControl, error) {
	params := url.Values{}
	params.Set("account", account)

	var ac AccountControl
	if err := c.call(ctx, RequestGetPhasingOnlyControl, params, &ac); err != nil {
		return nil, err
	}
	return &ac, nil
}

// call posts a form request to the node and decodes the JSON response
// into v. A response carrying errorCode is returned as *Error.
func (c *Client) call(ctx context.Context, requestType string, params url.Values, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{}
	for k, vals := range params {
		form[k] = append([]string(nil), vals...)
	}
	form.Set("requestType", requestType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/nxt", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build %s request: %w", requestType, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", requestType, ErrNodeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w: %v", requestType, ErrNodeFailed, err)
	}

	slog.Debug("node request completed",
		"request_type", requestType,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w: status %d", requestType, ErrNodeFailed, resp.StatusCode)
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w: %v", requestType, ErrNodeFailed, err)
	}
	if envelope.ErrorCode != nil {
		return &Error{
			Code:             *envelope.ErrorCode,
			Description:      envelope.ErrorDescription,
			SubPoll:          envelope.SubPoll,
			SemanticWarnings: envelope.SemanticWarnings,
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s response: %w: %v", requestType, ErrNodeFailed, err)
	}
	return nil
}
