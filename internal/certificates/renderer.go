// Package certificates renders certificate PDFs. Rendering is stateless:
// the same input always produces the same layout, and the artifact is
// immutable once persisted.
package certificates

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/campus-events/event-service/internal/models"
)

// RenderInput is everything the renderer needs for one certificate.
type RenderInput struct {
	RecipientName   string
	EventTitle      string
	EventDate       time.Time
	Type            models.CertificateType
	Title           string
	Position        string
	Score           *float64
	CertificateID   string
	VerificationURL string
	IssuedAt        time.Time
}

// Validate checks required fields before any drawing happens.
func (in *RenderInput) Validate() error {
	if strings.TrimSpace(in.RecipientName) == "" {
		return fmt.Errorf("recipient name is required")
	}
	if strings.TrimSpace(in.EventTitle) == "" {
		return fmt.Errorf("event title is required")
	}
	if !models.ValidCertificateType(in.Type) {
		return fmt.Errorf("invalid certificate type: %s", in.Type)
	}
	if strings.TrimSpace(in.CertificateID) == "" {
		return fmt.Errorf("certificate id is required")
	}
	if strings.TrimSpace(in.VerificationURL) == "" {
		return fmt.Errorf("verification url is required")
	}
	if in.Type == models.CertWinner && strings.TrimSpace(in.Position) == "" {
		return fmt.Errorf("winner certificate requires a position")
	}
	if in.Type == models.CertAchievement && (strings.TrimSpace(in.Title) == "" || in.Score == nil) {
		return fmt.Errorf("achievement certificate requires a title and score")
	}
	return nil
}

var typeHeadings = map[models.CertificateType]string{
	models.CertParticipation: "Certificate of Participation",
	models.CertCompletion:    "Certificate of Completion",
	models.CertAppreciation:  "Certificate of Appreciation",
	models.CertAchievement:   "Certificate of Achievement",
	models.CertWinner:        "Winner Certificate",
}

// Render draws the certificate and returns the PDF bytes.
func Render(in RenderInput) ([]byte, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// Border
	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(30, 60, 120)
	pdf.Rect(8, 8, pageW-16, pageH-16, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(11, 11, pageW-22, pageH-22, "D")

	// Heading
	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetTextColor(30, 60, 120)
	pdf.SetY(30)
	pdf.CellFormat(0, 14, typeHeadings[in.Type], "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(6)
	pdf.CellFormat(0, 8, "This certificate is proudly presented to", "", 1, "C", false, 0, "")

	// Recipient
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
	pdf.CellFormat(0, 14, in.RecipientName, "", 1, "C", false, 0, "")

	// Event line
	pdf.SetFont("Helvetica", "", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(2)
	eventLine := fmt.Sprintf("for %s in", verbForType(in.Type))
	pdf.CellFormat(0, 8, eventLine, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 17)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, in.EventTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, "held on "+in.EventDate.Format("January 2, 2006"), "", 1, "C", false, 0, "")

	// Optional detail lines
	if in.Position != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(150, 100, 0)
		pdf.Ln(2)
		pdf.CellFormat(0, 9, "Position: "+in.Position, "", 1, "C", false, 0, "")
	}
	if in.Score != nil {
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(0, 8, fmt.Sprintf("Score: %.1f", *in.Score), "", 1, "C", false, 0, "")
	}
	if in.Title != "" {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(0, 8, in.Title, "", 1, "C", false, 0, "")
	}

	// Verification QR in the bottom-right corner
	qrPNG, err := qrcode.Encode(in.VerificationURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode verification qr: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verification-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("verification-qr", pageW-48, pageH-48, 30, 30, false, opts, 0, "")

	// Footer: certificate id and issue date
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(16, pageH-26)
	pdf.CellFormat(0, 5, "Certificate ID: "+in.CertificateID, "", 1, "L", false, 0, "")
	pdf.SetX(16)
	pdf.CellFormat(0, 5, "Issued: "+in.IssuedAt.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.SetX(16)
	pdf.CellFormat(0, 5, "Verify at: "+in.VerificationURL, "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func verbForType(t models.CertificateType) string {
	switch t {
	case models.CertCompletion:
		return "successfully completing"
	case models.CertWinner:
		return "winning"
	case models.CertAchievement:
		return "outstanding achievement"
	case models.CertAppreciation:
		return "valuable contribution"
	default:
		return "participating"
	}
}
