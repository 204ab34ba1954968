package export

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"synthetic-rights/internal/domain"
)

func (s *service) renderPDF(ctx context.Context, cert *domain.Certificate) (*Artifact, error) {
	rc, err := s.buildRenderContext(ctx, cert)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Certificate "+cert.ID, false)
	pdf.AddPage()

	if s.watermark.Enabled {
		drawWatermark(pdf, s.watermark)
	}

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "Certificate of Registration", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 7, "SyntheticRights creative work registry", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, rc.WorkTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Registered to "+rc.OwnerName, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	rows := [][2]string{
		{"Certificate ID", rc.CertificateID},
		{"Certificate type", rc.Type},
		{"Issued", rc.IssuedAt},
		{"Expires", rc.ExpiresAt},
		{"Metadata hash", rc.MetadataHash},
	}
	if rc.TransactionID != "" {
		rows = append(rows, [2]string{"Transaction", rc.TransactionID + " (" + rc.NetworkName + ")"})
	}

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Courier", "", 9)
		pdf.MultiCell(0, 8, row[1], "", "L", false)
	}

	if rc.IsRevoked {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(200, 30, 30)
		pdf.CellFormat(0, 10, "REVOKED", "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "[QR]", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Verify at "+rc.VerifyURL, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return &Artifact{
		FileName:    cert.ID + ".pdf",
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

func drawWatermark(pdf *fpdf.Fpdf, wm Watermark) {
	r, g, b := parseHexColor(wm.Color)
	w, h := pdf.GetPageSize()

	pdf.SetAlpha(wm.Opacity, "Normal")
	pdf.SetFont("Helvetica", "B", wm.FontSize)
	pdf.SetTextColor(r, g, b)

	pdf.TransformBegin()
	pdf.TransformRotate(wm.Angle, w/2, h/2)
	pdf.Text(w/2-pdf.GetStringWidth(wm.Text)/2, h/2, wm.Text)
	pdf.TransformEnd()

	pdf.SetAlpha(1, "Normal")
	pdf.SetTextColor(0, 0, 0)
}

func parseHexColor(c string) (int, int, int) {
	c = strings.TrimPrefix(c, "#")
	if len(c) != 6 {
		return 0, 0, 0
	}
	r, _ := strconv.ParseInt(c[0:2], 16, 0)
	g, _ := strconv.ParseInt(c[2:4], 16, 0)
	b, _ := strconv.ParseInt(c[4:6], 16, 0)
	return int(r), int(g), int(b)
}
