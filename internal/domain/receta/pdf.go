package receta

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/optica/optica/internal/domain/patient"
	"github.com/optica/optica/internal/platform/datefmt"
)

// Header holds the clinic texts printed on every prescription.
type Header struct {
	ClinicName string
	Tagline    string
	Contact    string
	Disclaimer string
}

const (
	pdfMargin    = 10.0
	pdfColWidth  = 25.0
	pdfRowHeight = 6.0
	pdfCellInset = 2.0
	pdfFont      = "Helvetica"

	birthDatePlaceholder = "___________"
	addressPlaceholder   = "_______________________________________________"
)

var pdfColumns = []string{"Ojo", "Esfera", "Cilindro", "Eje", "ADD", "DNP", "Altura"}

type textStyle struct {
	style string
	size  float64
}

var (
	styleTitle    = textStyle{"B", 16}
	styleSubtitle = textStyle{"B", 12}
	styleSection  = textStyle{"B", 10}
	styleNormal   = textStyle{"", 9}
	styleSmall    = textStyle{"", 7}
)

// Generator renders prescriptions as single-page A5 landscape PDFs. It does
// no data access; callers pass the prescription with its details.
type Generator struct {
	header   Header
	now      func() time.Time
	compress bool
}

func NewGenerator(h Header) *Generator {
	return &Generator{header: h, now: time.Now, compress: true}
}

// Filename is receta_<dd-mm-yyyy of issue>_<first surname>.pdf.
func Filename(r *Receta, p *patient.Patient) string {
	return fmt.Sprintf("receta_%s_%s.pdf", datefmt.FileDate(r.FechaEmision.Time), fileSafe(p.PrimerApellido))
}

// fileSafe replaces path separators and control characters so a surname
// cannot leave the output directory.
func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}

// Write renders r for patient p to w.
func (g *Generator) Write(w io.Writer, r *Receta, p *patient.Patient) error {
	now := g.now()

	pdf := fpdf.New("L", "mm", "A5", "")
	pdf.SetCompression(g.compress)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle("Receta "+p.FullName(), true)
	pdf.SetAuthor(g.header.ClinicName, true)
	pdf.SetCreator("optica-server", false)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pw, ph := pdf.GetPageSize()
	m := pdfMargin
	contentWidth := pw - 2*m

	use := func(s textStyle) { pdf.SetFont(pdfFont, s.style, s.size) }
	text := func(x, y float64, s string) { pdf.Text(x, y, tr(s)) }
	centered := func(y float64, s string) {
		s = tr(s)
		pdf.Text((pw-pdf.GetStringWidth(s))/2, y, s)
	}

	// header
	use(styleTitle)
	text(m+25, m+5, g.header.ClinicName)
	use(styleNormal)
	text(m+25, m+10, g.header.Tagline)
	text(m+25, m+15, g.header.Contact)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(m, m+20, pw-m, m+20)

	// patient
	use(styleSubtitle)
	text(m, m+28, "Información del Paciente")
	use(styleNormal)
	text(m, m+35, "Nombre: "+p.FullName())
	birth := birthDatePlaceholder
	if p.FechaNacimiento != nil {
		birth = datefmt.Short(p.FechaNacimiento.Time)
	}
	text(m, m+40, "Fecha de Nacimiento: "+birth)
	text(m+110, m+40, "Teléfono: "+p.Telefono)
	address := addressPlaceholder
	if p.Direccion != nil && *p.Direccion != "" {
		address = *p.Direccion
	}
	text(m, m+45, "Dirección: "+address)

	pdf.SetDrawColor(100, 100, 100)
	pdf.Line(m, m+50, pw-m, m+50)

	// prescription table
	use(styleSubtitle)
	text(m, m+58, "Prescripción Óptica")

	startY := m + 65
	use(styleSection)
	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(m, startY-4, float64(len(pdfColumns))*pdfColWidth, pdfRowHeight, "F")
	for i, col := range pdfColumns {
		text(m+float64(i)*pdfColWidth+pdfCellInset, startY, col)
	}
	use(styleNormal)
	for ri, row := range EyeRows(r) {
		y := startY + float64(ri+1)*pdfRowHeight
		for ci, cell := range row.cells() {
			text(m+float64(ci)*pdfColWidth+pdfCellInset, y, cell)
		}
	}

	pdf.SetDrawColor(100, 100, 100)
	pdf.Line(m, startY+18, pw-m, startY+18)

	// notes
	use(styleSubtitle)
	text(m, startY+26, "Notas")
	use(styleNormal)
	notes := strings.TrimSpace(strVal(r.Notas))
	if notes == "" {
		notes = "Ninguna"
	}
	for i, line := range wrap(notes, contentWidth, func(s string) float64 { return pdf.GetStringWidth(tr(s)) }) {
		text(m, startY+32+float64(i)*4, line)
	}

	// signature
	pdf.SetDrawColor(50, 50, 50)
	pdf.Line(pw-70, startY+55, pw-m, startY+55)
	use(styleSmall)
	text(pw-45, startY+60, "Firma del Doctor")

	// footer
	centered(ph-10, g.header.Disclaimer)
	centered(ph-5, "Generado el "+datefmt.Generated(now))

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render receta %s: %w", r.ID, err)
	}
	return pdf.Output(w)
}

// wrap breaks s into lines no wider than w, splitting at spaces. A single word
// wider than w gets a line of its own. Explicit newlines are kept.
func wrap(s string, w float64, width func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			if line == "" {
				line = word
				continue
			}
			if width(line+" "+word) > w {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
