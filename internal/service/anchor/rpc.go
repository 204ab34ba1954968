package anchor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var ErrAnchorUnavailable = errors.New("anchor RPC unavailable")

type rpcAnchor struct {
	baseURL string
	network string
	client  *http.Client
}

// NewRPC builds an Anchor backed by an HTTP JSON endpoint. Every call is
// bounded by timeout so a stalled node surfaces as a failure instead of a
// hung issuance.
func NewRPC(baseURL, network string, timeout time.Duration) Anchor {
	return &rpcAnchor{
		baseURL: baseURL,
		network: network,
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *rpcAnchor) NetworkName() string {
	return a.network
}

type registerRequest struct {
	WorkID  uuid.UUID `json:"work_id"`
	Hash    string    `json:"hash"`
	OwnerID uuid.UUID `json:"owner_id"`
	Network string    `json:"network"`
}

func (a *rpcAnchor) Register(ctx context.Context, workID uuid.UUID, hash string, ownerID uuid.UUID) (*RegisterResult, error) {
	var result RegisterResult
	err := a.post(ctx, "/register", registerRequest{
		WorkID:  workID,
		Hash:    hash,
		OwnerID: ownerID,
		Network: a.network,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *rpcAnchor) VerifyExact(ctx context.Context, hash string) (*ExactResult, error) {
	var result ExactResult
	err := a.post(ctx, "/verify", map[string]string{"hash": hash}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *rpcAnchor) VerifyFuzzy(ctx context.Context, desc Descriptor) (*FuzzyResult, error) {
	var result FuzzyResult
	err := a.post(ctx, "/verify/fuzzy", desc, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *rpcAnchor) IsRevoked(ctx context.Context, certificateID string) (bool, error) {
	var result struct {
		Revoked bool `json:"revoked"`
	}
	err := a.post(ctx, "/certificates/revoked", map[string]string{"certificate_id": certificateID}, &result)
	if err != nil {
		return false, err
	}
	return result.Revoked, nil
}

func (a *rpcAnchor) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAnchorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrAnchorUnavailable, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
