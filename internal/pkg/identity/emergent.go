package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// EmergentExchanger 调用 Emergent 的 session-data 接口
type EmergentExchanger struct {
	url    string
	client *http.Client
}

func NewEmergentExchanger(url string, timeout time.Duration) *EmergentExchanger {
	return &EmergentExchanger{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Exchange 非 200 响应视为拒绝
func (e *EmergentExchanger) Exchange(ctx context.Context, sessionID string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	if id.ID == "" || id.Email == "" {
		return nil, fmt.Errorf("%w: incomplete session data", ErrRejected)
	}

	return &id, nil
}
