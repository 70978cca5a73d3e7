// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-offline-sync/models"
)

// HTTPClientConfig configures the resty-backed [ServerAdapter].
type HTTPClientConfig struct {
	BaseURL string
	HashKey string
	Timeout time.Duration
}

type httpServerAdapter struct {
	client  *resty.Client
	hashKey string

	mu    sync.RWMutex
	token string
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. Every request inherits cfg.Timeout; a timed-out request
// surfaces as [ErrNetwork] like any other transport failure.
func NewHTTPServerAdapter(cfg HTTPClientConfig) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpServerAdapter{client: cli, hashKey: cfg.HashKey}
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// DeviceID implements [ServerAdapter]. The device id travels as the "sub"
// claim of the bearer token; the signature is not verified here because the
// token is only decoded for labelling, never for authorization decisions.
func (h *httpServerAdapter) DeviceID() string {
	token := h.Token()
	if token == "" {
		return ""
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// Ping implements [ServerAdapter].
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return fmt.Errorf("%w: ping: %w", ErrNetwork, err)
	}
	return mapHTTPError(resp)
}

// SubmitOperation implements [ServerAdapter]. A 409 response carries the
// authoritative remote value in a [models.SyncResponse] body; it is returned
// as a conflict payload, not as an error.
func (h *httpServerAdapter) SubmitOperation(ctx context.Context, op models.SyncOperation) (*models.RemoteConflict, error) {
	req := models.SyncRequest{Operation: op}
	req.Hash = computeTransportHash(op, h.hashKey)

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/sync/operations")
	if err != nil {
		return nil, fmt.Errorf("%w: submit operation: %w", ErrNetwork, err)
	}

	if resp.StatusCode() == http.StatusConflict {
		var sr models.SyncResponse
		if err = json.Unmarshal(resp.Body(), &sr); err != nil {
			return nil, fmt.Errorf("decode conflict response: %w", err)
		}
		if sr.Conflict == nil {
			return nil, fmt.Errorf("conflict response without payload")
		}
		return sr.Conflict, nil
	}

	return nil, mapHTTPError(resp)
}

// UploadChunk implements [ServerAdapter].
func (h *httpServerAdapter) UploadChunk(ctx context.Context, req models.ChunkUploadRequest) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/files/chunks")
	if err != nil {
		return fmt.Errorf("%w: upload chunk %d of %s: %w", ErrNetwork, req.Index, req.FileID, err)
	}

	return mapHTTPError(resp)
}

// VerifyFile implements [ServerAdapter].
func (h *httpServerAdapter) VerifyFile(ctx context.Context, req models.VerifyRequest) (models.VerifyResponse, error) {
	var vr models.VerifyResponse

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&vr).
		Post("/api/files/" + req.FileID + "/verify")
	if err != nil {
		return models.VerifyResponse{}, fmt.Errorf("%w: verify file %s: %w", ErrNetwork, req.FileID, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VerifyResponse{}, err
	}

	return vr, nil
}

// UploadStatus implements [ServerAdapter].
func (h *httpServerAdapter) UploadStatus(ctx context.Context, fileID string) (models.UploadStatusResponse, error) {
	var sr models.UploadStatusResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&sr).
		Get("/api/files/" + fileID + "/status")
	if err != nil {
		return models.UploadStatusResponse{}, fmt.Errorf("%w: upload status %s: %w", ErrNetwork, fileID, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UploadStatusResponse{}, err
	}

	return sr, nil
}

// FileInfo implements [ServerAdapter].
func (h *httpServerAdapter) FileInfo(ctx context.Context, fileID string) (models.FileInfo, error) {
	var fi models.FileInfo

	resp, err := h.authedRequest(ctx).
		SetResult(&fi).
		Get("/api/files/" + fileID)
	if err != nil {
		return models.FileInfo{}, fmt.Errorf("%w: file info %s: %w", ErrNetwork, fileID, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.FileInfo{}, err
	}

	return fi, nil
}

// DownloadChunk implements [ServerAdapter].
func (h *httpServerAdapter) DownloadChunk(ctx context.Context, fileID string, index int) (models.FileChunk, error) {
	var chunk models.FileChunk

	resp, err := h.authedRequest(ctx).
		SetResult(&chunk).
		Get("/api/files/" + fileID + "/chunks/" + strconv.Itoa(index))
	if err != nil {
		return models.FileChunk{}, fmt.Errorf("%w: download chunk %d of %s: %w", ErrNetwork, index, fileID, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.FileChunk{}, err
	}

	return chunk, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	switch {
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusRequestEntityTooLarge || code == http.StatusInsufficientStorage:
		return fmt.Errorf("%w: http %d: %s", ErrQuotaExceeded, code, body)
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: http %d: %s", ErrBadRequest, code, body)
	case code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrNetwork, code, body)
	}

	return fmt.Errorf("http %d: %s", code, body)
}

func computeTransportHash(v any, key string) string {
	if key == "" {
		return ""
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	h := hmac.New(sha256.New, []byte(key))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
