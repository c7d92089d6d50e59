package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	engineerrors "go-payrun/internal/engine/errors"
	"go-payrun/internal/metrics"
	"go-payrun/internal/shared/apperror"
	"go-payrun/internal/workflow"

	"go.uber.org/zap"
)

//go:generate mockgen -source=engine_client.go -destination=mock/engine_client_mock.go -package=mock
type Client interface {
	ListPayrolls(ctx context.Context, wc workflow.Context) ([]PayrollRecord, error)
	GetPayroll(ctx context.Context, wc workflow.Context, payrollID int64) (PayrollRecord, error)
	CommandCenter(ctx context.Context, wc workflow.Context, year, month int) ([]CommandCenterRow, error)
	PaymentMethods(ctx context.Context, wc workflow.Context) ([]PaymentMethod, error)
	SalaryComponents(ctx context.Context, wc workflow.Context) ([]SalaryComponent, error)
	Preview(ctx context.Context, wc workflow.Context, req CalculationRequest) (PreviewResult, error)
	Process(ctx context.Context, wc workflow.Context, req CalculationRequest, idempotencyKey string) (PayrollRecord, error)
	InitiatePayment(ctx context.Context, wc workflow.Context, payrollID int64) (GatewaySession, error)
	Void(ctx context.Context, wc workflow.Context, payrollID int64) error
	EmailPayslip(ctx context.Context, wc workflow.Context, payrollID int64) error
	EmployeeHistory(ctx context.Context, wc workflow.Context, employeeID int64) ([]PayrollRecord, error)
}

type client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger ...*zap.Logger) Client {
	l := zap.L().Named("engine.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("engine.client")
	}
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout}, l)
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

func (c *client) ListPayrolls(ctx context.Context, wc workflow.Context) ([]PayrollRecord, error) {
	var out []PayrollRecord
	err := c.do(ctx, wc, http.MethodGet, "/payrolls", nil, nil, &out)
	return out, err
}

func (c *client) GetPayroll(ctx context.Context, wc workflow.Context, payrollID int64) (PayrollRecord, error) {
	var out PayrollRecord
	err := c.do(ctx, wc, http.MethodGet, "/payrolls/"+strconv.FormatInt(payrollID, 10), nil, nil, &out)
	return out, err
}

func (c *client) CommandCenter(ctx context.Context, wc workflow.Context, year, month int) ([]CommandCenterRow, error) {
	q := url.Values{}
	q.Set("month", strconv.Itoa(month))
	q.Set("year", strconv.Itoa(year))

	var out []CommandCenterRow
	err := c.do(ctx, wc, http.MethodGet, "/payrolls/command-center?"+q.Encode(), nil, nil, &out)
	return out, err
}

func (c *client) PaymentMethods(ctx context.Context, wc workflow.Context) ([]PaymentMethod, error) {
	var out []PaymentMethod
	err := c.do(ctx, wc, http.MethodGet, "/payment-methods", nil, nil, &out)
	return out, err
}

func (c *client) SalaryComponents(ctx context.Context, wc workflow.Context) ([]SalaryComponent, error) {
	var out []SalaryComponent
	err := c.do(ctx, wc, http.MethodGet, "/salary-components", nil, nil, &out)
	return out, err
}

func (c *client) Preview(ctx context.Context, wc workflow.Context, req CalculationRequest) (PreviewResult, error) {
	var out PreviewResult
	err := c.do(ctx, wc, http.MethodPost, "/payrolls/preview", nil, req, &out)
	return out, err
}

func (c *client) Process(ctx context.Context, wc workflow.Context, req CalculationRequest, idempotencyKey string) (PayrollRecord, error) {
	header := http.Header{}
	if idempotencyKey != "" {
		header.Set("Idempotency-Key", idempotencyKey)
	}

	var out PayrollRecord
	err := c.do(ctx, wc, http.MethodPost, "/payrolls/process", header, req, &out)
	return out, err
}

func (c *client) InitiatePayment(ctx context.Context, wc workflow.Context, payrollID int64) (GatewaySession, error) {
	var out GatewaySession
	err := c.do(ctx, wc, http.MethodGet, "/esewa/initiate/"+strconv.FormatInt(payrollID, 10), nil, nil, &out)
	return out, err
}

func (c *client) Void(ctx context.Context, wc workflow.Context, payrollID int64) error {
	return c.do(ctx, wc, http.MethodPut, "/payrolls/void/"+strconv.FormatInt(payrollID, 10), nil, nil, nil)
}

func (c *client) EmailPayslip(ctx context.Context, wc workflow.Context, payrollID int64) error {
	return c.do(ctx, wc, http.MethodPost, "/payrolls/email/"+strconv.FormatInt(payrollID, 10), nil, nil, nil)
}

func (c *client) EmployeeHistory(ctx context.Context, wc workflow.Context, employeeID int64) ([]PayrollRecord, error) {
	var out []PayrollRecord
	err := c.do(ctx, wc, http.MethodGet, "/payrolls/employee/"+strconv.FormatInt(employeeID, 10), nil, nil, &out)
	return out, err
}

func (c *client) do(
	ctx context.Context,
	wc workflow.Context,
	method, path string,
	header http.Header,
	body any,
	out any,
) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if wc.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+wc.AuthToken)
	}
	if wc.RequestID != "" {
		req.Header.Set("X-Request-ID", wc.RequestID)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.EngineLatency.WithLabelValues(method, "error").Observe(time.Since(started).Seconds())
		c.logger.Error("engine call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", wc.RequestID),
			zap.Error(err),
		)
		return engineerrors.ErrUpstreamFailure.WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return engineerrors.ErrUpstreamFailure.WithCause(err)
	}

	metrics.EngineLatency.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Observe(time.Since(started).Seconds())
	c.logger.Debug("engine call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
		zap.String("request_id", wc.RequestID),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return mapStatusError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrapEnvelope(raw), out); err != nil {
		c.logger.Error("decode engine response failed", zap.String("path", path), zap.Error(err))
		return engineerrors.ErrMalformedResponse
	}
	return nil
}

// mapStatusError keeps the engine's message verbatim for client-side errors.
func mapStatusError(status int, raw []byte) error {
	msg := extractMessage(raw)

	switch {
	case status == http.StatusUnauthorized:
		return apperror.ErrUnauthorized
	case status == http.StatusForbidden:
		return apperror.ErrForbidden
	case status == http.StatusNotFound:
		if msg != "" {
			return engineerrors.ErrRecordNotFound.WithMessage(msg)
		}
		return engineerrors.ErrRecordNotFound
	case status < http.StatusInternalServerError:
		if msg == "" {
			return engineerrors.ErrRemoteRejected
		}
		return engineerrors.ErrRemoteRejected.WithMessage(msg)
	default:
		return engineerrors.ErrUpstreamFailure.WithDetails(map[string]any{
			"status":  status,
			"message": msg,
		})
	}
}

func extractMessage(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		switch e := body.Error.(type) {
		case string:
			return e
		case map[string]any:
			if m, ok := e["message"].(string); ok {
				return m
			}
		}
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// unwrapEnvelope accepts both bare payloads and {"ok"|"success": ..., "data": ...} envelopes.
func unwrapEnvelope(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return raw
	}
	data, ok := env["data"]
	if !ok {
		return raw
	}
	_, hasOk := env["ok"]
	_, hasSuccess := env["success"]
	if hasOk || hasSuccess || len(env) == 1 {
		return data
	}
	return raw
}

// IsUpstreamFailure reports transport/5xx failures as opposed to engine rejections.
func IsUpstreamFailure(err error) bool {
	return errors.Is(err, engineerrors.ErrUpstreamFailure) || errors.Is(err, engineerrors.ErrMalformedResponse)
}
