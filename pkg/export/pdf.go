package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/aretw0/casebook/pkg/core"
)

const (
	pageMargin   = 20.0
	maxImageH    = 100.0
	imageName    = "evidence"
	reportTitle  = "Crime Scene Analysis Report"
	numberColumn = 15.0
)

// report is the layout-independent content of a PDF.
type report struct {
	title       string
	caseName    string
	generatedAt time.Time
	imageRef    string
	description string
	objects     []string
}

// Document renders c as a PDF. A missing image or description produces a
// shorter but valid document; an image that cannot be decoded or embedded
// fails with core.ErrExport and no bytes.
func Document(c core.Case, generatedAt time.Time) ([]byte, error) {
	return render(report{
		title:       reportTitle,
		caseName:    c.Name,
		generatedAt: generatedAt,
		imageRef:    c.ImageRef,
		description: c.Description,
		objects:     c.DetectedObjects,
	})
}

// DetectionDocument renders a detection result that has not been saved as a case.
func DetectionDocument(d core.Detection, imageRef string, generatedAt time.Time) ([]byte, error) {
	return render(report{
		title:       reportTitle,
		generatedAt: generatedAt,
		imageRef:    imageRef,
		description: d.Description,
		objects:     d.Objects,
	})
}

func render(r report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(r.title, true)
	pdf.SetCreator("casebook", true)
	if !r.generatedAt.IsZero() {
		pdf.SetCreationDate(r.generatedAt)
		pdf.SetModificationDate(r.generatedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	width := pageW - 2*pageMargin

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(128, 64, 0)
	pdf.CellFormat(width, 10, tr(r.title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(100, 100, 100)
	if r.caseName != "" {
		pdf.CellFormat(width, 7, tr("Case: "+r.caseName), "", 1, "C", false, 0, "")
	}
	if !r.generatedAt.IsZero() {
		pdf.CellFormat(width, 7, "Generated: "+r.generatedAt.Format(DateLayout), "", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	if r.imageRef != "" {
		if err := embedImage(pdf, r.imageRef, width); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrExport, err)
		}
	}

	// Description
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(width, 8, "Scene Description", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	description := r.description
	if strings.TrimSpace(description) == "" {
		description = NoDescription
	}
	pdf.MultiCell(width, 5, tr(description), "", "L", false)
	pdf.Ln(5)

	// Objects table
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(width, 8, "Detected Objects", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 64, 0)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(numberColumn, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(width-numberColumn, 8, "Object", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range objectRows(r.objects) {
		pdf.CellFormat(numberColumn, 7, row[0], "1", 0, "C", false, 0, "")
		pdf.CellFormat(width-numberColumn, 7, tr(row[1]), "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrExport, err)
	}
	return buf.Bytes(), nil
}

// objectRows returns the table body, with a placeholder row when there are no objects.
func objectRows(objects []string) [][2]string {
	if len(objects) == 0 {
		return [][2]string{{"", NoObjects}}
	}
	rows := make([][2]string, len(objects))
	for i, obj := range objects {
		rows[i] = [2]string{strconv.Itoa(i + 1), obj}
	}
	return rows
}

func embedImage(pdf *fpdf.Fpdf, ref string, width float64) error {
	img, err := loadImage(ref)
	if err != nil {
		return err
	}

	opts := fpdf.ImageOptions{ImageType: img.kind}
	info := pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(img.data))
	if pdf.Err() || info == nil {
		return fmt.Errorf("failed to embed image: %v", pdf.Error())
	}

	w, h := width, maxImageH
	if iw, ih := info.Width(), info.Height(); iw > 0 && ih > 0 {
		h = width * ih / iw
		if h > maxImageH {
			h = maxImageH
			w = maxImageH * iw / ih
		}
	}

	x := pageMargin + (width-w)/2
	y := pdf.GetY()
	pdf.ImageOptions(imageName, x, y, w, h, false, opts, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Rect(x, y, w, h, "D")
	pdf.SetY(y + h + 8)
	return nil
}
