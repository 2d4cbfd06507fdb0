package receta

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/optica/optica/internal/platform/datefmt"
	"github.com/optica/optica/internal/platform/validate"
)

func validInput() Input {
	return Input{
		PacienteID:   uuid.New().String(),
		FechaEmision: "2024-03-05",
		Derecho:      EyeInput{TipoLente: "monofocal", Esfera: "-1.25", Eje: "90"},
		Izquierdo:    EyeInput{Esfera: "0.5"},
	}
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var in EyeInput
	body := `{"esfera": -1.25, "cilindro": "-0.75", "eje": null, "altura": ""}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Esfera != "-1.25" || in.Cilindro != "-0.75" || in.Eje != "" || in.Altura != "" {
		t.Errorf("unexpected input %+v", in)
	}

	if err := json.Unmarshal([]byte(`{"esfera": true}`), &in); err == nil {
		t.Error("expected error for boolean value")
	}
}

func TestNumber_Parse(t *testing.T) {
	tests := []struct {
		in      Number
		want    *float64
		wantErr bool
	}{
		{"", nil, false},
		{"  ", nil, false},
		{"-1.25", floatPtr(-1.25), false},
		{" 2 ", floatPtr(2), false},
		{"abc", nil, true},
		{"NaN", nil, true},
	}
	for _, tt := range tests {
		got, err := tt.in.Float()
		if (err != nil) != tt.wantErr {
			t.Errorf("Float(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Float(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if i, err := Number("90.0").Int(); err != nil || *i != 90 {
		t.Errorf("Int(90.0) = %v, %v", i, err)
	}
	if _, err := Number("90.5").Int(); err == nil {
		t.Error("expected error for fractional axis")
	}
}

func TestNewInput_Defaults(t *testing.T) {
	id := uuid.New()
	in := NewInput(id)

	today := datefmt.Today()
	if in.FechaEmision != today.String() {
		t.Errorf("expected issue date today, got %s", in.FechaEmision)
	}
	if in.FechaVencimiento != today.AddYears(1).String() {
		t.Errorf("expected expiry in one year, got %s", in.FechaVencimiento)
	}
	if in.PacienteID != id.String() {
		t.Errorf("expected patient id %s, got %s", id, in.PacienteID)
	}
}

func TestForm_Steps(t *testing.T) {
	f := NewForm(Input{})
	if f.Step() != StepInformacion {
		t.Fatalf("expected first step %s, got %s", StepInformacion, f.Step())
	}
	if !f.Next() || f.Step() != StepPrescripcion {
		t.Errorf("expected to move to %s without validation", StepPrescripcion)
	}
	if f.Next() {
		t.Error("expected Next on the last step to stay")
	}
}

func TestForm_Build(t *testing.T) {
	r, err := NewForm(validInput()).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.Detalles) != 2 {
		t.Fatalf("expected two details, got %d", len(r.Detalles))
	}
	if r.Detalles[0].Ojo != OjoDerecho || r.Detalles[1].Ojo != OjoIzquierdo {
		t.Errorf("expected right eye first, got %s, %s", r.Detalles[0].Ojo, r.Detalles[1].Ojo)
	}
	od := r.Detalles[0]
	if od.Esfera == nil || *od.Esfera != -1.25 {
		t.Errorf("expected esfera -1.25, got %v", od.Esfera)
	}
	if od.Eje == nil || *od.Eje != 90 {
		t.Errorf("expected eje 90, got %v", od.Eje)
	}
	if od.Cilindro != nil {
		t.Error("expected empty cilindro to be nil")
	}
	if r.Detalles[1].TipoLente != nil {
		t.Error("expected empty lens type to be nil")
	}
	if r.FechaVencimiento != nil {
		t.Error("expected no expiry date")
	}
	if r.FechaEmision.String() != "2024-03-05" {
		t.Errorf("unexpected issue date %s", r.FechaEmision)
	}
}

func TestForm_BuildRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
		msg    string
		fields []string
	}{
		{"missing patient", func(in *Input) { in.PacienteID = "" }, validate.MsgRequired, []string{"paciente_id"}},
		{"missing issue date", func(in *Input) { in.FechaEmision = " " }, validate.MsgRequired, []string{"fecha_emision"}},
		{"bad expiry", func(in *Input) { in.FechaVencimiento = "05/03/2025" }, validate.MsgRequired, []string{"fecha_vencimiento"}},
		{"unknown lens type", func(in *Input) { in.Izquierdo.TipoLente = "trifocal" }, validate.MsgRequired, []string{"izquierdo.tipo_lente"}},
		{"malformed sphere", func(in *Input) { in.Derecho.Esfera = "-1,25" }, MsgInvalidNumber, []string{"derecho.esfera"}},
		{"axis out of range", func(in *Input) { in.Izquierdo.Eje = "181" }, MsgInvalidNumber, []string{"izquierdo.eje"}},
		{"several values", func(in *Input) {
			in.Derecho.Altura = "x"
			in.Izquierdo.DistanciaPupilar = "y"
		}, MsgInvalidNumber, []string{"derecho.altura", "izquierdo.distancia_pupilar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(&in)

			_, err := NewForm(in).Build()
			ve, ok := validate.AsError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Message != tt.msg {
				t.Errorf("message = %q, want %q", ve.Message, tt.msg)
			}
			if !reflect.DeepEqual(ve.Fields, tt.fields) {
				t.Errorf("fields = %v, want %v", ve.Fields, tt.fields)
			}
		})
	}
}

func TestInputFrom(t *testing.T) {
	exp := datefmt.NewDate(2025, 3, 5)
	r := &Receta{
		PacienteID:       uuid.New(),
		FechaEmision:     datefmt.NewDate(2024, 3, 5),
		FechaVencimiento: &exp,
		Detalles: []*Detalle{
			{Ojo: OjoIzquierdo, Esfera: floatPtr(0.5)},
			{Ojo: OjoDerecho, Esfera: floatPtr(-1.25), Eje: intPtr(90), TipoLente: strPtr("bifocal")},
		},
	}

	in := InputFrom(r)
	if in.Derecho.Esfera != "-1.25" || in.Derecho.Eje != "90" || in.Derecho.TipoLente != "bifocal" {
		t.Errorf("unexpected right eye %+v", in.Derecho)
	}
	if in.Izquierdo.Esfera != "0.5" {
		t.Errorf("unexpected left eye %+v", in.Izquierdo)
	}
	if in.FechaVencimiento != "2025-03-05" {
		t.Errorf("unexpected expiry %s", in.FechaVencimiento)
	}

	rebuilt, err := NewForm(in).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *rebuilt.Detalle(OjoDerecho).Esfera != -1.25 {
		t.Error("expected values to survive an edit round trip")
	}
}

func TestInputFrom_MissingIssueDateFallsBackToToday(t *testing.T) {
	in := InputFrom(&Receta{PacienteID: uuid.New()})
	if in.FechaEmision != datefmt.Today().String() {
		t.Errorf("expected today, got %s", in.FechaEmision)
	}
}
