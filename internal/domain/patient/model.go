package patient

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/optica/optica/internal/platform/datefmt"
)

var ErrNotFound = errors.New("paciente no encontrado")

// Patient maps to the pacientes table.
type Patient struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	PrimerNombre    string        `db:"primer_nombre" json:"primer_nombre"`
	PrimerApellido  string        `db:"primer_apellido" json:"primer_apellido"`
	SegundoApellido *string       `db:"segundo_apellido" json:"segundo_apellido"`
	Direccion       *string       `db:"direccion" json:"direccion"`
	Telefono        string        `db:"telefono" json:"telefono"`
	Email           *string       `db:"email" json:"email"`
	FechaNacimiento *datefmt.Date `db:"fecha_nacimiento" json:"fecha_nacimiento"`
	Notas           *string       `db:"notas" json:"notas"`
}

// FullName joins first name, first surname and the optional second surname.
func (p *Patient) FullName() string {
	return strings.TrimSpace(strings.Join([]string{p.PrimerNombre, p.PrimerApellido, strVal(p.SegundoApellido)}, " "))
}

// Initials is the upper-cased first letter of the first name and first surname.
func (p *Patient) Initials() string {
	return firstLetter(p.PrimerNombre) + firstLetter(p.PrimerApellido)
}

func firstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(strings.TrimSpace(s))
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Matches reports whether q is a substring of the name fields or email
// (case-insensitive) or of the phone number (verbatim). An empty q matches.
func (p *Patient) Matches(q string) bool {
	if q == "" {
		return true
	}
	lq := strings.ToLower(q)
	for _, field := range []string{p.PrimerNombre, p.PrimerApellido, strVal(p.SegundoApellido), strVal(p.Email)} {
		if strings.Contains(strings.ToLower(field), lq) {
			return true
		}
	}
	return strings.Contains(p.Telefono, q)
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optional trims s and returns nil when nothing is left.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
