package receta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/optica/optica/internal/platform/datefmt"
	"github.com/optica/optica/internal/platform/validate"
	"github.com/optica/optica/pkg/wizard"
)

const (
	StepInformacion  = "informacion"
	StepPrescripcion = "prescripcion"
)

// MsgInvalidNumber is shown when a prescription value is not a number or is
// out of range.
const MsgInvalidNumber = "Revisa los valores de la prescripción"

// Number is a numeric form value as typed by the user. It decodes from a JSON
// number, a JSON string or null; the empty value means "not given".
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("valor numérico inválido %s", b)
	}
	*n = Number(num)
	return nil
}

// Float parses n. Empty input yields nil.
func (n Number) Float() (*float64, error) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%q no es un número", s)
	}
	return &f, nil
}

// Int parses n as a whole number. "90" and "90.0" are accepted, "90.5" is not.
func (n Number) Int() (*int, error) {
	f, err := n.Float()
	if err != nil || f == nil {
		return nil, err
	}
	if *f != math.Trunc(*f) {
		return nil, fmt.Errorf("%q no es un número entero", string(n))
	}
	i := int(*f)
	return &i, nil
}

func numberOf(f *float64) Number {
	if f == nil {
		return ""
	}
	return Number(strconv.FormatFloat(*f, 'f', -1, 64))
}

func numberOfInt(i *int) Number {
	if i == nil {
		return ""
	}
	return Number(strconv.Itoa(*i))
}

// EyeInput holds the prescription values typed for one eye.
type EyeInput struct {
	TipoLente        string `json:"tipo_lente" validate:"omitempty,oneof=monofocal bifocal progresivo ocupacional"`
	Esfera           Number `json:"esfera"`
	Cilindro         Number `json:"cilindro"`
	Eje              Number `json:"eje"`
	Adicion          Number `json:"adicion"`
	DistanciaPupilar Number `json:"distancia_pupilar"`
	Altura           Number `json:"altura"`
	Notas            string `json:"notas"`
}

func eyeInputFrom(d *Detalle) EyeInput {
	if d == nil {
		return EyeInput{}
	}
	return EyeInput{
		TipoLente:        strVal(d.TipoLente),
		Esfera:           numberOf(d.Esfera),
		Cilindro:         numberOf(d.Cilindro),
		Eje:              numberOfInt(d.Eje),
		Adicion:          numberOf(d.Adicion),
		DistanciaPupilar: numberOf(d.DistanciaPupilar),
		Altura:           numberOf(d.Altura),
		Notas:            strVal(d.Notas),
	}
}

// detalle converts the input for ojo, appending the JSON path of every
// malformed value to bad.
func (in EyeInput) detalle(ojo string, bad *[]string) *Detalle {
	d := &Detalle{
		Ojo:       ojo,
		TipoLente: optional(in.TipoLente),
		Notas:     optional(in.Notas),
	}

	floats := []struct {
		name string
		val  Number
		dst  **float64
	}{
		{"esfera", in.Esfera, &d.Esfera},
		{"cilindro", in.Cilindro, &d.Cilindro},
		{"adicion", in.Adicion, &d.Adicion},
		{"distancia_pupilar", in.DistanciaPupilar, &d.DistanciaPupilar},
		{"altura", in.Altura, &d.Altura},
	}
	for _, f := range floats {
		v, err := f.val.Float()
		if err != nil {
			*bad = append(*bad, ojo+"."+f.name)
			continue
		}
		*f.dst = v
	}

	eje, err := in.Eje.Int()
	if err != nil || (eje != nil && (*eje < 0 || *eje > 180)) {
		*bad = append(*bad, ojo+".eje")
	} else {
		d.Eje = eje
	}
	return d
}

// Input is the prescription form.
type Input struct {
	PacienteID       string   `json:"paciente_id" validate:"required,uuid"`
	FechaEmision     string   `json:"fecha_emision" validate:"notblank,datetime=2006-01-02"`
	FechaVencimiento string   `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	Notas            string   `json:"notas"`
	Derecho          EyeInput `json:"derecho"`
	Izquierdo        EyeInput `json:"izquierdo"`
}

// NewInput returns the blank form for a new prescription: issued today and
// expiring in one year.
func NewInput(pacienteID uuid.UUID) Input {
	today := datefmt.Today()
	return Input{
		PacienteID:       pacienteID.String(),
		FechaEmision:     today.String(),
		FechaVencimiento: today.AddYears(1).String(),
	}
}

// InputFrom fills the form from a stored prescription for editing.
func InputFrom(r *Receta) Input {
	in := Input{
		PacienteID:   r.PacienteID.String(),
		FechaEmision: r.FechaEmision.String(),
		Notas:        strVal(r.Notas),
		Derecho:      eyeInputFrom(r.Detalle(OjoDerecho)),
		Izquierdo:    eyeInputFrom(r.Detalle(OjoIzquierdo)),
	}
	if r.FechaEmision.IsZero() {
		in.FechaEmision = datefmt.Today().String()
	}
	if r.FechaVencimiento != nil {
		in.FechaVencimiento = r.FechaVencimiento.String()
	}
	return in
}

// Form is the two-step prescription wizard: general information, then the
// per-eye values.
type Form struct {
	*wizard.Wizard
	Input Input
}

func NewForm(in Input) *Form {
	return &Form{Wizard: wizard.New(StepInformacion, StepPrescripcion), Input: in}
}

// Build validates the input and returns the prescription to persist with
// exactly two details, right eye first.
func (f *Form) Build() (*Receta, error) {
	in := f.Input
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	pacienteID, err := uuid.Parse(in.PacienteID)
	if err != nil {
		return nil, validate.NewError(validate.MsgRequired, "paciente_id")
	}
	emision, err := datefmt.ParseDate(in.FechaEmision)
	if err != nil {
		return nil, validate.NewError(validate.MsgRequired, "fecha_emision")
	}

	r := &Receta{
		PacienteID:   pacienteID,
		FechaEmision: emision,
		Notas:        optional(in.Notas),
	}
	if in.FechaVencimiento != "" {
		v, err := datefmt.ParseDate(in.FechaVencimiento)
		if err != nil {
			return nil, validate.NewError(validate.MsgRequired, "fecha_vencimiento")
		}
		r.FechaVencimiento = &v
	}

	var bad []string
	r.Detalles = []*Detalle{
		in.Derecho.detalle(OjoDerecho, &bad),
		in.Izquierdo.detalle(OjoIzquierdo, &bad),
	}
	if err := validate.NewError(MsgInvalidNumber, bad...); err != nil {
		return nil, err
	}
	return r, nil
}

// optional trims s and returns nil when nothing is left.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
