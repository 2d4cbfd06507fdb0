package patient

import (
	"reflect"
	"testing"

	"github.com/optica/optica/internal/platform/validate"
)

func validInput() Input {
	return Input{
		PrimerNombre:   "Ana",
		PrimerApellido: "Lopez",
		Telefono:       "8671234567",
	}
}

func TestForm_Steps(t *testing.T) {
	f := NewForm(Input{})
	if f.Step() != StepDatosPersonales {
		t.Fatalf("expected %s, got %s", StepDatosPersonales, f.Step())
	}
	if !f.Next() || f.Step() != StepDatosMedicos {
		t.Fatalf("expected navigation to %s without validation", StepDatosMedicos)
	}
	if !f.Back() || f.Step() != StepDatosPersonales {
		t.Fatalf("expected navigation back to %s", StepDatosPersonales)
	}
}

func TestForm_Build(t *testing.T) {
	in := validInput()
	in.SegundoApellido = "  "
	in.Email = "ana@correo.mx"
	in.FechaNacimiento = "1990-03-05"
	in.PrimerNombre = "  Ana "

	p, err := NewForm(in).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PrimerNombre != "Ana" {
		t.Errorf("expected trimmed name, got %q", p.PrimerNombre)
	}
	if p.SegundoApellido != nil {
		t.Errorf("expected blank second surname to become nil, got %q", *p.SegundoApellido)
	}
	if p.Direccion != nil || p.Notas != nil {
		t.Error("expected empty optional fields to be nil")
	}
	if p.Email == nil || *p.Email != "ana@correo.mx" {
		t.Errorf("unexpected email %v", p.Email)
	}
	if p.FechaNacimiento == nil || p.FechaNacimiento.String() != "1990-03-05" {
		t.Errorf("unexpected birth date %v", p.FechaNacimiento)
	}
}

func TestForm_BuildRejectsMissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		fields []string
	}{
		{"empty phone", func(in *Input) { in.Telefono = "" }, []string{"telefono"}},
		{"blank first name", func(in *Input) { in.PrimerNombre = "   " }, []string{"primer_nombre"}},
		{"everything missing", func(in *Input) { *in = Input{} }, []string{"primer_apellido", "primer_nombre", "telefono"}},
		{"bad birth date", func(in *Input) { in.FechaNacimiento = "05/03/1990" }, []string{"fecha_nacimiento"}},
		{"bad email", func(in *Input) { in.Email = "ana" }, []string{"email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := NewForm(in).Build()
			ve, ok := validate.AsError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !reflect.DeepEqual(ve.Fields, tt.fields) {
				t.Errorf("fields = %v, want %v", ve.Fields, tt.fields)
			}
		})
	}
}

func TestInputFrom(t *testing.T) {
	in := validInput()
	in.Direccion = "Sonora 2515"
	in.FechaNacimiento = "1990-03-05"
	p, err := NewForm(in).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := InputFrom(p); !reflect.DeepEqual(got, in) {
		t.Errorf("InputFrom() = %+v, want %+v", got, in)
	}
}
