package receta

import (
	"strconv"

	"github.com/optica/optica/internal/platform/datefmt"
)

// Missing stands in for a value that was not prescribed.
const Missing = "-"

// FormatNumber renders f with the fewest digits that round-trip: -1.25, 2, 0.
func FormatNumber(f *float64) string {
	if f == nil {
		return Missing
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(i *int) string {
	if i == nil {
		return Missing
	}
	return strconv.Itoa(*i)
}

// EyeRow is one line of the prescription table.
type EyeRow struct {
	Ojo              string `json:"ojo"`
	Esfera           string `json:"esfera"`
	Cilindro         string `json:"cilindro"`
	Eje              string `json:"eje"`
	Adicion          string `json:"adicion"`
	DistanciaPupilar string `json:"distancia_pupilar"`
	Altura           string `json:"altura"`
}

func (e EyeRow) cells() []string {
	return []string{e.Ojo, e.Esfera, e.Cilindro, e.Eje, e.Adicion, e.DistanciaPupilar, e.Altura}
}

func eyeRow(label string, d *Detalle) EyeRow {
	if d == nil {
		d = &Detalle{}
	}
	return EyeRow{
		Ojo:              label,
		Esfera:           FormatNumber(d.Esfera),
		Cilindro:         FormatNumber(d.Cilindro),
		Eje:              formatInt(d.Eje),
		Adicion:          FormatNumber(d.Adicion),
		DistanciaPupilar: FormatNumber(d.DistanciaPupilar),
		Altura:           FormatNumber(d.Altura),
	}
}

// EyeRows returns the table rows, right eye (OD) then left eye (OI).
func EyeRows(r *Receta) []EyeRow {
	return []EyeRow{
		eyeRow("OD", r.Detalle(OjoDerecho)),
		eyeRow("OI", r.Detalle(OjoIzquierdo)),
	}
}

// Row is a prescription as shown under an expanded patient row.
type Row struct {
	*Receta
	FechaEmisionLarga     string   `json:"fecha_emision_larga"`
	FechaVencimientoLarga string   `json:"fecha_vencimiento_larga,omitempty"`
	TiposLente            []string `json:"tipos_lente"`
	Tabla                 []EyeRow `json:"tabla"`
}

func NewRow(r *Receta) Row {
	row := Row{
		Receta:            r,
		FechaEmisionLarga: datefmt.LongTime(r.FechaEmision.Time),
		TiposLente:        DistinctLensTypes(r.Detalles),
		Tabla:             EyeRows(r),
	}
	if row.TiposLente == nil {
		row.TiposLente = []string{}
	}
	if r.FechaVencimiento != nil {
		row.FechaVencimientoLarga = datefmt.LongTime(r.FechaVencimiento.Time)
	}
	return row
}

func NewRows(rs []*Receta) []Row {
	rows := make([]Row, len(rs))
	for i, r := range rs {
		rows[i] = NewRow(r)
	}
	return rows
}
