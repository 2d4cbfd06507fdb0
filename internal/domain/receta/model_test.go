package receta

import (
	"reflect"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func strPtr(s string) *string     { return &s }

func TestDistinctLensTypes(t *testing.T) {
	ds := []*Detalle{
		{Ojo: OjoDerecho, TipoLente: strPtr("progresivo")},
		{Ojo: OjoIzquierdo, TipoLente: strPtr("progresivo")},
		{Ojo: OjoIzquierdo},
		{Ojo: OjoIzquierdo, TipoLente: strPtr("bifocal")},
	}
	got := DistinctLensTypes(ds)
	if !reflect.DeepEqual(got, []string{"progresivo", "bifocal"}) {
		t.Errorf("DistinctLensTypes() = %v", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "-"},
		{floatPtr(-1.25), "-1.25"},
		{floatPtr(2), "2"},
		{floatPtr(0), "0"},
		{floatPtr(0.1), "0.1"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEyeRows(t *testing.T) {
	r := &Receta{Detalles: []*Detalle{
		{Ojo: OjoIzquierdo, Esfera: floatPtr(0.5), Eje: intPtr(0)},
	}}

	rows := EyeRows(r)
	if rows[0].Ojo != "OD" || rows[1].Ojo != "OI" {
		t.Fatalf("expected OD then OI, got %s, %s", rows[0].Ojo, rows[1].Ojo)
	}
	if rows[0].Esfera != "-" || rows[0].Eje != "-" {
		t.Errorf("expected dashes for the missing right eye, got %+v", rows[0])
	}
	if rows[1].Esfera != "0.5" || rows[1].Eje != "0" || rows[1].Altura != "-" {
		t.Errorf("unexpected left eye row %+v", rows[1])
	}
}

func TestNewRow(t *testing.T) {
	r := &Receta{Detalles: []*Detalle{{Ojo: OjoDerecho}}}
	row := NewRow(r)
	if row.TiposLente == nil || len(row.TiposLente) != 0 {
		t.Errorf("expected empty lens type list, got %v", row.TiposLente)
	}
	if row.FechaVencimientoLarga != "" {
		t.Errorf("expected no expiry text, got %q", row.FechaVencimientoLarga)
	}
}
