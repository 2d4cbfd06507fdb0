package receta

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/optica/optica/internal/domain/patient"
	"github.com/optica/optica/internal/platform/datefmt"
)

func testHeader() Header {
	return Header{
		ClinicName: "ÓPTICA OMEGA",
		Tagline:    "Especialistas en salud visual",
		Contact:    "Sonora #2515, Nuevo Laredo, Tamps.",
		Disclaimer: "Optica Omega - Todos los derechos reservados",
	}
}

func testGenerator() *Generator {
	g := NewGenerator(testHeader())
	g.compress = false
	g.now = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }
	return g
}

func testPatient() *patient.Patient {
	return &patient.Patient{PrimerNombre: "Ana", PrimerApellido: "García", Telefono: "8671234567"}
}

func testReceta() *Receta {
	return &Receta{
		FechaEmision: datefmt.NewDate(2024, 3, 5),
		Detalles: []*Detalle{
			{Ojo: OjoDerecho, Esfera: floatPtr(-1.25), Eje: intPtr(90)},
			{Ojo: OjoIzquierdo, Cilindro: floatPtr(-0.5)},
		},
	}
}

func TestFilename(t *testing.T) {
	got := Filename(testReceta(), testPatient())
	if got != "receta_05-03-2024_García.pdf" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestFilename_StripsPathSeparators(t *testing.T) {
	p := testPatient()
	for _, apellido := range []string{"../../etc/passwd", `..\Windows`, "Ruiz/Soto"} {
		p.PrimerApellido = apellido
		got := Filename(testReceta(), p)
		if strings.ContainsAny(got, `/\`) {
			t.Errorf("Filename() with %q = %q", apellido, got)
		}
	}
	p.PrimerApellido = "Ruiz/Soto"
	if got := Filename(testReceta(), p); got != "receta_05-03-2024_Ruiz_Soto.pdf" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestGenerator_Write(t *testing.T) {
	var buf bytes.Buffer
	if err := testGenerator().Write(&buf, testReceta(), testPatient()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-") {
		t.Fatalf("expected a PDF document, got %q", out[:min(len(out), 16)])
	}
	for _, want := range []string{
		"(Nombre: Ana Garc",
		"(Fecha de Nacimiento: ___________)",
		"(Ojo)", "(Esfera)", "(Altura)",
		"(OD)", "(OI)", "(-1.25)", "(90)", "(-0.5)", "(-)",
		"(Ninguna)",
		"(Firma del Doctor)",
		"(Generado el 5 de marzo de 2024)",
		"(Optica Omega - Todos los derechos reservados)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected PDF to contain %q", want)
		}
	}
}

func TestGenerator_WritePatientDetails(t *testing.T) {
	p := testPatient()
	birth := datefmt.NewDate(1990, 7, 15)
	addr := "Sonora 12"
	p.FechaNacimiento = &birth
	p.Direccion = &addr

	r := testReceta()
	notes := "Usar lentes para lectura"
	r.Notas = &notes

	var buf bytes.Buffer
	if err := testGenerator().Write(&buf, r, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"(Fecha de Nacimiento: 15/07/1990)", "Sonora 12)", "(Usar lentes para lectura)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected PDF to contain %q", want)
		}
	}
	if strings.Contains(out, "(Ninguna)") {
		t.Error("expected notes instead of the placeholder")
	}
}

func TestWrap(t *testing.T) {
	width := func(s string) float64 { return float64(len(s)) }

	got := wrap("uno dos tres cuatro", 8, width)
	want := []string{"uno dos", "tres", "cuatro"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrap() = %q, want %q", got, want)
	}

	got = wrap("a\nb", 80, width)
	if len(got) != 2 {
		t.Errorf("expected explicit newline to split, got %q", got)
	}
}
