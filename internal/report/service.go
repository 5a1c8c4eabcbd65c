// Package report renders a downloadable PDF snapshot of a triage session:
// the accumulated case, any red flags, and the conversation transcript.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/signintech/gopdf"

	"symptom-checker/internal/knowledge"
	"symptom-checker/internal/triage"
)

type Service struct {
	kb *knowledge.Base
}

func NewService(kb *knowledge.Base) *Service {
	return &Service{kb: kb}
}

// Render produces the PDF case report for a session.
func (s *Service) Render(sess *triage.Session) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	// Try multiple common DejaVu locations (Alpine, Debian).
	fontPaths := []string{
		"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF, ensure ttf-dejavu is installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Abdominal Pain Triage Report")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Session ID: %s", sess.ID))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Case summary: %s", sess.Case.Summary()))
	pdf.Br(25)

	lastUser := ""
	if n := len(sess.History); n > 0 {
		lastUser = sess.History[n-1].User
	}
	flags := triage.DetectRedFlags(sess.Case, lastUser, s.kb.EmergencySymptoms)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Red flags:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	if len(flags) == 0 {
		pdf.Cell(nil, "- None detected.")
		pdf.Br(15)
	}
	for _, f := range flags {
		s.writeWrapped(&pdf, "- "+f)
		pdf.Br(5)
	}
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Conversation:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	for _, turn := range sess.History {
		s.writeWrapped(&pdf, fmt.Sprintf("Patient: %s", turn.User))
		s.writeWrapped(&pdf, fmt.Sprintf("Assistant: %s", turn.Bot))
		pdf.Br(5)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) writeWrapped(pdf *gopdf.GoPdf, text string) {
	lines, _ := pdf.SplitText(text, 500)
	for _, l := range lines {
		pdf.Cell(nil, l)
		pdf.Br(12)
	}
}
