package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"binder/internal/domain/services"
	"binder/internal/engine/reorg"
)

const (
	// DefaultOrganizerTimeout is the default HTTP timeout for organizer
	// requests. Full-collection suggestions involve model inference, so it
	// is generous.
	DefaultOrganizerTimeout = 60 * time.Second
)

// OrganizerHTTPClient talks to the external organizer service over plain
// JSON POSTs.
type OrganizerHTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOrganizerHTTPClient creates an organizer client.
func NewOrganizerHTTPClient(baseURL, apiKey string, logger *slog.Logger) *OrganizerHTTPClient {
	return &OrganizerHTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultOrganizerTimeout,
		},
		logger: logger,
	}
}

var _ services.OrganizerClient = (*OrganizerHTTPClient)(nil)

type reorganizationRequest struct {
	CollectionID   string `json:"collectionId"`
	CollectionName string `json:"collectionName"`
}

type reorganizationResponse struct {
	Reorganization struct {
		Operations reorg.Operations `json:"operations"`
	} `json:"reorganization"`
}

// SuggestReorganization requests a full-collection operation payload.
func (c *OrganizerHTTPClient) SuggestReorganization(ctx context.Context, collectionID, collectionName string) (*reorg.Operations, error) {
	var out reorganizationResponse
	err := c.post(ctx, "/reorganize", reorganizationRequest{
		CollectionID:   collectionID,
		CollectionName: collectionName,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Reorganization.Operations, nil
}

type placementRequest struct {
	CollectionID string `json:"collectionId"`
	DocumentName string `json:"documentName"`
}

type placementResponse struct {
	FolderName *string `json:"folderName"`
}

// SuggestPlacement asks which folder a document belongs in. A null folder
// name in the response means the document should stay put.
func (c *OrganizerHTTPClient) SuggestPlacement(ctx context.Context, collectionID, documentName string) (*string, error) {
	var out placementResponse
	err := c.post(ctx, "/placement", placementRequest{
		CollectionID: collectionID,
		DocumentName: documentName,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.FolderName, nil
}

type targetedDropRequest struct {
	CollectionID string `json:"collectionId"`
	DocumentID   string `json:"documentId"`
	FolderID     string `json:"folderId"`
}

// NotifyTargetedDrop records a deliberate drop into a folder so future
// suggestions respect the user's choice.
func (c *OrganizerHTTPClient) NotifyTargetedDrop(ctx context.Context, collectionID, documentID, folderID string) error {
	return c.post(ctx, "/targeted-drop", targetedDropRequest{
		CollectionID: collectionID,
		DocumentID:   documentID,
		FolderID:     folderID,
	}, nil)
}

func (c *OrganizerHTTPClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling organizer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating organizer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("organizer request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading organizer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("organizer error (status %d): %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing organizer response: %w", err)
	}
	return nil
}
