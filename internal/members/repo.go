package members

import (
	"context"
	"errors"

	"github.com/flexclub/memberpulse/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrMemberNotFound = errors.New("member not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Member, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.members.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	member := &Member{}
	err = r.db.
		QueryRow(ctx, `
			SELECT id, tenant_id, name, created_at
			FROM member
			WHERE id = $1;`, id).
		Scan(&member.ID, &member.TenantID, &member.Name, &member.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// IDs returns the ids of all members of the given tenant, oldest first.
func (r *Repo) IDs(ctx context.Context, tenantID int) (_ []int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.members.ids")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tenant_id", tenantID))

	rows, err := r.db.Query(ctx, `
		SELECT id FROM member
		WHERE tenant_id = $1
		ORDER BY id;`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *Repo) Count(ctx context.Context, tenantID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.members.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tenant_id", tenantID))

	var count int
	err = r.db.
		QueryRow(ctx, `SELECT COUNT(*) FROM member WHERE tenant_id = $1;`, tenantID).
		Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}
