package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

// PDFRenderer produces the court-ready case dossier: case overview, the
// evidence chain with custody history, and a tail of recent audit entries.
type PDFRenderer struct {
	Now func() time.Time
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Now: time.Now}
}

func (r *PDFRenderer) Render(c domain.Case, evidence []domain.EvidenceRecord, audits []domain.SystemAuditEntry) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle("Veritas Legal - Case Dossier", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Veritas Legal - Case Dossier", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated at: %s", r.now().UTC().Format("2006-01-02 15:04:05 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	sectionTitle(pdf, "1. Case Overview")
	kv(pdf, "Case ID", c.ID)
	kv(pdf, "Case No", c.CaseNumber)
	kv(pdf, "Title", c.Title)
	kv(pdf, "Status", string(c.Status))
	kv(pdf, "Court", c.Court)
	kv(pdf, "Judge", c.Judge)
	kv(pdf, "Types", strings.Join(c.CaseTypes, ", "))
	kv(pdf, "Registered", fmtTime(c.RegisteredAt))
	if strings.TrimSpace(c.Description) != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(20, 20, 20)
		pdf.MultiCell(0, 5, safeText(c.Description), "", "L", false)
	}
	pdf.Ln(2)

	sectionTitle(pdf, "2. Evidence Chain")
	if len(evidence) == 0 {
		emptyNote(pdf)
	} else {
		for _, rec := range evidence {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(20, 20, 20)
			pdf.MultiCell(0, 5, fmt.Sprintf("#%d | %s | %s", rec.ChainIndex, safeText(rec.Title), string(rec.Status)), "", "L", false)
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(40, 40, 40)
			pdf.MultiCell(0, 4.5, fmt.Sprintf("sha256: %s", rec.ContentHash), "", "L", false)
			pdf.MultiCell(0, 4.5, fmt.Sprintf("previous: %s", rec.PreviousHash), "", "L", false)
			if rec.Source != "" {
				pdf.MultiCell(0, 4.5, fmt.Sprintf("source: %s", safeText(rec.Source)), "", "L", false)
			}
			for _, entry := range rec.CustodyLog {
				pdf.MultiCell(0, 4.5, fmt.Sprintf("  custody %d: [%s] %s by %s",
					entry.EntryIndex, fmtTime(entry.Timestamp), string(entry.Action), safeText(entry.Actor)), "", "L", false)
			}
			pdf.Ln(1)
		}
	}
	pdf.Ln(2)

	sectionTitle(pdf, "3. Recent Audit Entries")
	if len(audits) == 0 {
		emptyNote(pdf)
	} else {
		for _, entry := range audits {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(30, 30, 30)
			pdf.MultiCell(0, 4.5, fmt.Sprintf("[%s] %s %s/%s by %s",
				fmtTime(entry.Timestamp), string(entry.Action), entry.TargetTable, entry.TargetID, entry.ActorUserID), "", "L", false)
			pdf.SetTextColor(90, 90, 90)
			pdf.MultiCell(0, 4.5, fmt.Sprintf("  integrity: %s", entry.IntegrityHash), "", "L", false)
		}
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 4.5, "Note: chain and ledger hashes above are recomputable; verify them with the chain and audit verification endpoints before relying on this document.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render dossier: %w", err)
	}
	return buf.Bytes(), "application/pdf", nil
}

func (r *PDFRenderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(2)
}

func kv(pdf *gofpdf.Fpdf, key, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(36, 5.2, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(0, 5.2, safeText(value), "", "L", false)
}

func emptyNote(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 5, "(empty)", "", "L", false)
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

// The core fonts cover ASCII only; anything outside is replaced so the
// export never fails on exotic input.
func safeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		if r < 32 || r > 126 {
			b.WriteRune('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
