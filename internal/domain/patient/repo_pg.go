package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optica/optica/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const cols = `id, created_at, primer_nombre, primer_apellido, segundo_apellido,
	direccion, telefono, email, fecha_nacimiento, notas`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.CreatedAt, &p.PrimerNombre, &p.PrimerApellido,
		&p.SegundoApellido, &p.Direccion, &p.Telefono, &p.Email,
		&p.FechaNacimiento, &p.Notas)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO pacientes (id, primer_nombre, primer_apellido, segundo_apellido,
			direccion, telefono, email, fecha_nacimiento, notas)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		p.ID, p.PrimerNombre, p.PrimerApellido, p.SegundoApellido,
		p.Direccion, p.Telefono, p.Email, p.FechaNacimiento, p.Notas,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert paciente: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM pacientes WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select paciente %s: %w", id, err)
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE pacientes SET primer_nombre=$2, primer_apellido=$3, segundo_apellido=$4,
			direccion=$5, telefono=$6, email=$7, fecha_nacimiento=$8, notas=$9
		WHERE id = $1
		RETURNING created_at`,
		p.ID, p.PrimerNombre, p.PrimerApellido, p.SegundoApellido,
		p.Direccion, p.Telefono, p.Email, p.FechaNacimiento, p.Notas,
	).Scan(&p.CreatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update paciente %s: %w", p.ID, err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM pacientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete paciente %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListPage(ctx context.Context, limit, offset int) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM pacientes ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pacientes: %w", err)
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paciente: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM pacientes`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count pacientes: %w", err)
	}
	return total, nil
}
