// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/user"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/uptrace/bun"
)

// AuditEntry is one row of the audit log.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// auditLogModel maps the audit_log table.
type auditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            string    `bun:"id,pk"`
	Timestamp     time.Time `bun:"timestamp"`
	Username      string    `bun:"username"`
	Action        string    `bun:"action"`
	Details       string    `bun:"details"`
}

func currentUsername() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	// Windows reports DOMAIN\user.
	if parts := strings.Split(u.Username, `\`); len(parts) > 1 {
		return parts[1]
	}
	return u.Username
}

// LogAction appends an audit entry attributed to the current OS user.
func (s *Store) LogAction(ctx context.Context, action, details string) error {
	m := auditLogModel{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		Username:  currentUsername(),
		Action:    action,
		Details:   details,
	}
	_, err := s.bun.NewInsert().Model(&m).Exec(ctx)
	return MapDBError(err)
}

// ListAuditLog returns up to limit entries, newest first. limit <= 0 returns
// every entry.
func (s *Store) ListAuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	var rows []auditLogModel
	q := s.bun.NewSelect().Model(&rows).OrderExpr("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := make([]AuditEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, AuditEntry{ID: r.ID, Timestamp: r.Timestamp, Username: r.Username, Action: r.Action, Details: r.Details})
	}
	return out, nil
}

// ExportAuditLog writes every entry as zstd-compressed JSON lines, oldest
// first, and returns the number of entries written.
func (s *Store) ExportAuditLog(ctx context.Context, w io.Writer) (int, error) {
	entries, err := s.ListAuditLog(ctx, 0)
	if err != nil {
		return 0, err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("could not create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	for i := len(entries) - 1; i >= 0; i-- {
		if err := enc.Encode(entries[i]); err != nil {
			_ = zw.Close()
			return 0, fmt.Errorf("could not encode audit entry: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("could not flush zstd stream: %w", err)
	}
	return len(entries), nil
}

// ReadAuditExport decodes a stream produced by ExportAuditLog.
func ReadAuditExport(r io.Reader) ([]AuditEntry, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var out []AuditEntry
	dec := json.NewDecoder(zr)
	for dec.More() {
		var e AuditEntry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("could not decode audit entry: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
