package patient

import (
	"github.com/optica/optica/internal/platform/datefmt"
)

const sinNotas = "Sin notas"

// Row is a patient as shown in the list: the stored record plus display fields.
type Row struct {
	*Patient
	NombreCompleto       string `json:"nombre_completo"`
	Iniciales            string `json:"iniciales"`
	FechaNacimientoLarga string `json:"fecha_nacimiento_larga,omitempty"`
	NotasTexto           string `json:"notas_texto"`
}

func NewRow(p *Patient) Row {
	row := Row{
		Patient:        p,
		NombreCompleto: p.FullName(),
		Iniciales:      p.Initials(),
		NotasTexto:     sinNotas,
	}
	if p.FechaNacimiento != nil {
		row.FechaNacimientoLarga = datefmt.LongTime(p.FechaNacimiento.Time)
	}
	if n := strVal(p.Notas); n != "" {
		row.NotasTexto = n
	}
	return row
}

func NewRows(ps []*Patient) []Row {
	rows := make([]Row, len(ps))
	for i, p := range ps {
		rows[i] = NewRow(p)
	}
	return rows
}
