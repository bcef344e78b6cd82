// Package ticket renders a printable PDF ticket for a booking.
package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/iliyamo/tourist-event-booking/internal/model"
)

// Render returns the PDF bytes and a download filename for d.
func Render(d model.BookingDetail) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Ticket "+Code(d.Booking), false)
	pdf.SetAuthor("Tourist Event Booking", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "EVENT TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 7, orDash(d.Event.Name), "", "", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Date        : %s", d.Event.Date.UTC().Format("2006-01-02 15:04 MST")),
		fmt.Sprintf("Location    : %s", orDash(d.Event.Location)),
		fmt.Sprintf("Category    : %s", orDash(d.PriceCategory.Name)),
		fmt.Sprintf("Tickets     : %d", d.TicketCount),
		fmt.Sprintf("Paid        : %d", d.PaymentAmount),
		fmt.Sprintf("Paid on     : %s", d.PaymentDate.UTC().Format("2006-01-02 15:04")),
		fmt.Sprintf("Holder      : %s", orDash(d.Tourist.User.Name)),
		fmt.Sprintf("Booking     : #%d", d.ID),
		fmt.Sprintf("Ticket code : %s", Code(d.Booking)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, fmt.Sprintf("Valid for %d admission(s). Present this ticket at the entrance.", d.TicketCount), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("TICKET_%d_%s.pdf", d.ID, filenamePart(d.Event.Name)), nil
}

// Code is the human-readable ticket code printed on the ticket.
func Code(b model.Booking) string {
	return fmt.Sprintf("TKT-%d-%d-%d", b.EventID, b.TouristID, b.ID)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func filenamePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "event"
	}
	return b.String()
}
