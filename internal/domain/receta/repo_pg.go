package receta

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optica/optica/internal/domain/patient"
	"github.com/optica/optica/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const cols = `id, paciente_id, fecha_emision, fecha_vencimiento, notas, created_at`

func scanReceta(row pgx.Row) (*Receta, error) {
	var rc Receta
	err := row.Scan(&rc.ID, &rc.PacienteID, &rc.FechaEmision, &rc.FechaVencimiento,
		&rc.Notas, &rc.CreatedAt)
	return &rc, err
}

func (r *repoPG) Create(ctx context.Context, rc *Receta) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		rc.ID = uuid.New()
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO recetas (id, paciente_id, fecha_emision, fecha_vencimiento, notas)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING created_at`,
			rc.ID, rc.PacienteID, rc.FechaEmision, rc.FechaVencimiento, rc.Notas,
		).Scan(&rc.CreatedAt)
		if db.IsForeignKeyViolation(err) {
			return patient.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("insert receta: %w", err)
		}
		return r.insertDetalles(ctx, rc)
	})
}

// Update rewrites the header and replaces every detail. Detail ids change.
func (r *repoPG) Update(ctx context.Context, rc *Receta) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		err := r.conn(ctx).QueryRow(ctx, `
			UPDATE recetas SET paciente_id=$2, fecha_emision=$3, fecha_vencimiento=$4, notas=$5
			WHERE id = $1
			RETURNING created_at`,
			rc.ID, rc.PacienteID, rc.FechaEmision, rc.FechaVencimiento, rc.Notas,
		).Scan(&rc.CreatedAt)
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		if db.IsForeignKeyViolation(err) {
			return patient.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update receta %s: %w", rc.ID, err)
		}

		if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM receta_detalles WHERE receta_id = $1`, rc.ID); err != nil {
			return fmt.Errorf("delete detalles of receta %s: %w", rc.ID, err)
		}
		return r.insertDetalles(ctx, rc)
	})
}

func (r *repoPG) insertDetalles(ctx context.Context, rc *Receta) error {
	for _, d := range rc.Detalles {
		d.ID = uuid.New()
		d.RecetaID = rc.ID
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO receta_detalles (id, receta_id, ojo, tipo_lente, esfera, cilindro,
				eje, adicion, distancia_pupilar, altura, notas)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			d.ID, d.RecetaID, d.Ojo, d.TipoLente, d.Esfera, d.Cilindro,
			d.Eje, d.Adicion, d.DistanciaPupilar, d.Altura, d.Notas)
		if err != nil {
			return fmt.Errorf("insert detalle %s of receta %s: %w", d.Ojo, rc.ID, err)
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Receta, error) {
	rc, err := scanReceta(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM recetas WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select receta %s: %w", id, err)
	}
	return rc, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM recetas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete receta %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, pacienteID uuid.UUID) ([]*Receta, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM recetas WHERE paciente_id = $1 ORDER BY fecha_emision DESC, created_at DESC`, pacienteID)
	if err != nil {
		return nil, fmt.Errorf("list recetas of paciente %s: %w", pacienteID, err)
	}
	defer rows.Close()

	var items []*Receta
	for rows.Next() {
		rc, err := scanReceta(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receta: %w", err)
		}
		items = append(items, rc)
	}
	return items, rows.Err()
}

const detalleCols = `id, receta_id, ojo, tipo_lente, esfera, cilindro, eje,
	adicion, distancia_pupilar, altura, notas`

func (r *repoPG) ListDetalles(ctx context.Context, recetaID uuid.UUID) ([]*Detalle, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+detalleCols+` FROM receta_detalles WHERE receta_id = $1
		ORDER BY CASE ojo WHEN 'derecho' THEN 0 ELSE 1 END`, recetaID)
	if err != nil {
		return nil, fmt.Errorf("list detalles of receta %s: %w", recetaID, err)
	}
	defer rows.Close()

	var items []*Detalle
	for rows.Next() {
		var d Detalle
		if err := rows.Scan(&d.ID, &d.RecetaID, &d.Ojo, &d.TipoLente, &d.Esfera, &d.Cilindro,
			&d.Eje, &d.Adicion, &d.DistanciaPupilar, &d.Altura, &d.Notas); err != nil {
			return nil, fmt.Errorf("scan detalle: %w", err)
		}
		items = append(items, &d)
	}
	return items, rows.Err()
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM recetas`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count recetas: %w", err)
	}
	return total, nil
}

// CountSince counts prescriptions issued on or after since.
func (r *repoPG) CountSince(ctx context.Context, since time.Time) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM recetas WHERE fecha_emision >= $1`, since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count recetas since %s: %w", since.Format(time.DateOnly), err)
	}
	return total, nil
}
