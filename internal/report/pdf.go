package report

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	apperrors "github.com/codenzaar/loan-tracker/pkg/errors"
)

const (
	pageMargin   = 50.0
	footerHeight = 70.0

	footerText = "Developed by Codenzaar Technologies"
	footerLink = "https://codenzaartechnologies.com/"
)

// pdfWriter implements DocumentWriter on gofpdf. Auto page breaks are off;
// the renderer paginates. The attribution footer is stamped on every page.
type pdfWriter struct {
	doc *gofpdf.Fpdf
	out io.Writer
}

// NewPDFWriter builds a portrait A4 writer that delivers the finished
// document to out on Close.
func NewPDFWriter(out io.Writer) DocumentWriter {
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(false, footerHeight)

	doc.SetFooterFunc(func() {
		doc.SetY(-footerHeight + 10)
		doc.SetFont("Helvetica", "U", 10)
		doc.SetTextColor(128, 128, 128)
		doc.CellFormat(0, 12, footerText, "", 1, "C", false, 0, footerLink)
		doc.CellFormat(0, 12, footerLink, "", 1, "C", false, 0, footerLink)
		doc.SetTextColor(0, 0, 0)
	})

	doc.AddPage()

	return &pdfWriter{doc: doc, out: out}
}

func (w *pdfWriter) AddText(text string, style Style) {
	size := style.Size
	if size == 0 {
		size = 12
	}

	fontStyle := ""
	if style.Bold {
		fontStyle += "B"
	}
	if style.Underline {
		fontStyle += "U"
	}
	w.doc.SetFont("Helvetica", fontStyle, size)

	if style.Gray {
		w.doc.SetTextColor(128, 128, 128)
	} else {
		w.doc.SetTextColor(0, 0, 0)
	}

	align := style.Align
	if align == "" {
		align = "L"
	}

	left, _, right, _ := w.doc.GetMargins()
	if style.Indent > 0 {
		w.doc.SetX(left + style.Indent)
	}

	pageWidth, _ := w.doc.GetPageSize()
	w.doc.MultiCell(pageWidth-left-right-style.Indent, size*1.4, text, "", align, false)
}

func (w *pdfWriter) MoveDown(points float64) {
	w.doc.SetY(w.doc.GetY() + points)
}

func (w *pdfWriter) AddPage() {
	w.doc.AddPage()
}

func (w *pdfWriter) SpaceLeft() float64 {
	_, pageHeight := w.doc.GetPageSize()
	return pageHeight - footerHeight - w.doc.GetY()
}

func (w *pdfWriter) Close() error {
	if err := w.doc.Output(w.out); err != nil {
		return apperrors.WrapRenderError(err)
	}
	return nil
}
