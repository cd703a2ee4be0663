package export

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 6.0
)

// PDF renders a report with the summary, a bulleted list of action items
// and the transcription with emphasis markers removed.
func PDF(w io.Writer, d Document) error {
	date := d.Date
	if date.IsZero() {
		date = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Audio Analysis Report: "+d.Name, true)
	pdf.SetCreator("audioinsight", true)
	pdf.SetCreationDate(date)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Core fonts are cp1252 encoded.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "B", 18)
	pdf.CellFormat(0, 10, "Audio Analysis Report", "", 1, "L", false, 0, "")

	pdf.SetFont(pdfFont, "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, pdfLineHeight, tr("File: "+d.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, pdfLineHeight, "Date: "+date.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	heading := func(title string) {
		pdf.Ln(2)
		pdf.SetFont(pdfFont, "B", 13)
		pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 11)
	}

	heading("Summary")
	pdf.MultiCell(0, pdfLineHeight, tr(d.Result.Summary()), "", "L", false)

	heading("Actionable Items")
	items := d.Result.ActionItems()
	if len(items) == 0 {
		pdf.MultiCell(0, pdfLineHeight, "None.", "", "L", false)
	}
	for _, item := range items {
		pdf.MultiCell(0, pdfLineHeight, tr("- "+item), "", "L", false)
	}

	heading("Full Transcription")
	pdf.MultiCell(0, pdfLineHeight, tr(StripEmphasis(d.Result.Transcription())), "", "L", false)

	return pdf.Output(w)
}
