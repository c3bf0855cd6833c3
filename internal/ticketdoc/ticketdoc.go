// Package ticketdoc renders printable ticket artifacts: a QR image encoding
// the ticket identity and a PDF embedding it. Pure data-to-bytes functions,
// no state.
package ticketdoc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"campusevents/internal/models"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// qrPayload is what door scanners read back.
type qrPayload struct {
	TicketID  string `json:"ticketId"`
	Reference string `json:"reference,omitempty"`
}

// QRCode returns a PNG encoding {ticketId, reference}.
func QRCode(ticket *models.Ticket) ([]byte, error) {
	payload, err := json.Marshal(qrPayload{
		TicketID:  ticket.ID,
		Reference: ticket.Reference,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal qr payload: %w", err)
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	return png, nil
}

// PDF renders a one-page ticket with event details and the embedded QR.
func PDF(ticket *models.Ticket, event *models.Event) ([]byte, error) {
	png, err := QRCode(ticket)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "Event Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, event.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Date: %s at %s", event.Date.Format("Monday, Jan 2 2006"), event.Time),
		fmt.Sprintf("Location: %s", event.Location),
		fmt.Sprintf("Category: %s", event.Category),
		fmt.Sprintf("Ticket ID: %s", ticket.ID),
	}
	if ticket.Reference != "" {
		lines = append(lines, fmt.Sprintf("Payment reference: %s", ticket.Reference))
	}
	if ticket.AmountPaid > 0 {
		lines = append(lines, fmt.Sprintf("Amount paid: %.2f", ticket.AmountPaid))
	}
	for _, line := range lines {
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("ticket-qr", 75, pdf.GetY()+10, 60, 60, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return buf.Bytes(), nil
}
