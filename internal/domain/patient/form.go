package patient

import (
	"strings"

	"github.com/optica/optica/internal/platform/datefmt"
	"github.com/optica/optica/internal/platform/validate"
	"github.com/optica/optica/pkg/wizard"
)

const (
	StepDatosPersonales = "datos-personales"
	StepDatosMedicos    = "datos-medicos"
)

// Input is the patient form as typed by the user.
type Input struct {
	PrimerNombre    string `json:"primer_nombre" validate:"notblank"`
	PrimerApellido  string `json:"primer_apellido" validate:"notblank"`
	SegundoApellido string `json:"segundo_apellido"`
	FechaNacimiento string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Telefono        string `json:"telefono" validate:"notblank"`
	Email           string `json:"email" validate:"omitempty,email"`
	Direccion       string `json:"direccion"`
	Notas           string `json:"notas"`
}

// InputFrom fills the form from a stored patient for editing.
func InputFrom(p *Patient) Input {
	in := Input{
		PrimerNombre:    p.PrimerNombre,
		PrimerApellido:  p.PrimerApellido,
		SegundoApellido: strVal(p.SegundoApellido),
		Telefono:        p.Telefono,
		Email:           strVal(p.Email),
		Direccion:       strVal(p.Direccion),
		Notas:           strVal(p.Notas),
	}
	if p.FechaNacimiento != nil {
		in.FechaNacimiento = p.FechaNacimiento.String()
	}
	return in
}

// Form is the two-step patient wizard: personal data, then medical notes.
type Form struct {
	*wizard.Wizard
	Input Input
}

func NewForm(in Input) *Form {
	return &Form{Wizard: wizard.New(StepDatosPersonales, StepDatosMedicos), Input: in}
}

// Build validates the input and returns the patient to persist. Optional
// fields left blank become nil so an update clears them.
func (f *Form) Build() (*Patient, error) {
	in := f.Input
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	p := &Patient{
		PrimerNombre:    strings.TrimSpace(in.PrimerNombre),
		PrimerApellido:  strings.TrimSpace(in.PrimerApellido),
		SegundoApellido: optional(in.SegundoApellido),
		Telefono:        strings.TrimSpace(in.Telefono),
		Email:           optional(in.Email),
		Direccion:       optional(in.Direccion),
		Notas:           optional(in.Notas),
	}
	if in.FechaNacimiento != "" {
		d, err := datefmt.ParseDate(in.FechaNacimiento)
		if err != nil {
			return nil, validate.NewError(validate.MsgRequired, "fecha_nacimiento")
		}
		p.FechaNacimiento = &d
	}
	return p, nil
}
