package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

// Create implements audit.Repository. Rows are never updated or deleted.
func (r *auditRepository) Create(ctx context.Context, e audit.Event) error {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate audit id: %w", err)
		}
		e.ID = id.String()
	}

	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	dataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal audit metadata: %w", err)
	}

	var entityID *string
	if e.EntityID != "" {
		entityID = &e.EntityID
	}

	query := `
		INSERT INTO audit_logs (id, action, actor_id, entity_type, entity_id, before_status, after_status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = q.Exec(ctx, query,
		e.ID,
		string(e.Action),
		e.ActorID,
		e.EntityType,
		entityID,
		e.Before,
		e.After,
		dataJSON,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}
