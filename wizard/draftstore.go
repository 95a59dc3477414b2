package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kopichat/rdx"
)

// RedisDrafts persists wizard checkpoints so a half-finished booking
// survives a restart or a dropped session.
type RedisDrafts struct {
	TTL time.Duration
}

func NewRedisDrafts() *RedisDrafts {
	return &RedisDrafts{TTL: 24 * time.Hour}
}

func draftKey(userID string) string {
	return "draft:" + userID
}

func (r *RedisDrafts) Save(ctx context.Context, userID string, d Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return rdx.SetWithExpiry(draftKey(userID), string(data), r.TTL)
}

// Load returns (draft, true) when a usable checkpoint exists. A corrupt
// checkpoint is dropped rather than surfaced as an error.
func (r *RedisDrafts) Load(ctx context.Context, userID string) (Draft, bool, error) {
	raw, err := rdx.RdxGet(draftKey(userID))
	if err != nil || raw == "" {
		return Draft{}, false, nil
	}
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		_ = r.Clear(ctx, userID)
		return Draft{}, false, nil
	}
	return d, true, nil
}

func (r *RedisDrafts) Clear(ctx context.Context, userID string) error {
	return rdx.RdxDel(draftKey(userID))
}
