package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

const auditColumns = `id, user_id, entity_type, entity_id, action, changes, created_at`

const (
	sqlInsertAudit = `
		INSERT INTO audit_log (id, user_id, entity_type, entity_id, action, changes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	sqlAuditByEntity = `
		SELECT ` + auditColumns + `
		FROM audit_log
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
)

// AuditRepo is the SQLite audit log.
type AuditRepo struct {
	db *DB
}

// NewAuditRepo creates a new audit repository.
func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Log appends an audit record.
func (r *AuditRepo) Log(ctx context.Context, record domain.AuditRecord) error {
	changes := record.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("audit_record marshal changes: %w", err)
	}

	var entityID uuid.NullUUID
	if record.EntityID != nil {
		entityID = uuid.NullUUID{UUID: *record.EntityID, Valid: true}
	}

	_, err = r.db.querier(ctx).ExecContext(ctx, sqlInsertAudit,
		record.ID, record.UserID, string(record.EntityType), entityID,
		string(record.Action), string(changesJSON), toMillis(record.CreatedAt),
	)
	if err != nil {
		return mapError(err, "audit_record", record.ID)
	}
	return nil
}

// GetByEntity returns the change history for a specific entity, newest first.
func (r *AuditRepo) GetByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	rows, err := r.db.querier(ctx).QueryContext(ctx, sqlAuditByEntity, string(entityType), entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("get audit_records by entity: %w", err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var (
			rec       domain.AuditRecord
			typ       string
			eid       uuid.NullUUID
			action    string
			changes   string
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &typ, &eid, &action, &changes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit_record: %w", err)
		}
		rec.EntityType = domain.EntityType(typ)
		rec.Action = domain.AuditAction(action)
		if eid.Valid {
			id := eid.UUID
			rec.EntityID = &id
		}
		if err := json.Unmarshal([]byte(changes), &rec.Changes); err != nil {
			return nil, fmt.Errorf("audit_record unmarshal changes: %w", err)
		}
		rec.CreatedAt = fromMillis(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit_records rows: %w", err)
	}
	return records, nil
}
