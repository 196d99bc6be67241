package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

type Segment struct {
	Carrier   string
	Number    string
	From      string
	To        string
	DepartsAt string
	ArrivesAt string
}

type Itinerary struct {
	BookingID   string
	Traveller   string
	Email       string
	Origin      string
	Destination string
	StartDate   time.Time
	EndDate     *time.Time
	Fare        decimal.Decimal
	Currency    string
	OfferID     string
	Segments    []Segment
	BookedAt    time.Time
}

type offerSegments struct {
	ID          string `json:"id"`
	Itineraries []struct {
		Segments []struct {
			CarrierCode string `json:"carrierCode"`
			Number      string `json:"number"`
			Departure   struct {
				IataCode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"departure"`
			Arrival struct {
				IataCode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"arrival"`
		} `json:"segments"`
	} `json:"itineraries"`
}

// ParseOffer pulls the offer id and flight segments out of a frozen offer.
// Offers without itineraries yield no segments.
func ParseOffer(offer json.RawMessage) (string, []Segment) {
	var o offerSegments
	if err := json.Unmarshal(offer, &o); err != nil {
		return "", nil
	}

	var segments []Segment
	for _, it := range o.Itineraries {
		for _, s := range it.Segments {
			segments = append(segments, Segment{
				Carrier:   s.CarrierCode,
				Number:    s.Number,
				From:      s.Departure.IataCode,
				To:        s.Arrival.IataCode,
				DepartsAt: s.Departure.At,
				ArrivesAt: s.Arrival.At,
			})
		}
	}
	return o.ID, segments
}

// RenderItinerary builds the PDF and a download filename for a booking.
func RenderItinerary(it Itinerary) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Travel Itinerary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRAVEL ITINERARY")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking     : %s", safe(it.BookingID, "-")),
		fmt.Sprintf("Traveller   : %s", safe(it.Traveller, "-")),
		fmt.Sprintf("Email       : %s", safe(it.Email, "-")),
		fmt.Sprintf("Route       : %s -> %s", safe(it.Origin, "-"), safe(it.Destination, "-")),
		fmt.Sprintf("Departure   : %s", it.StartDate.Format("2006-01-02")),
		fmt.Sprintf("Return      : %s", returnDate(it.EndDate)),
		fmt.Sprintf("Offer       : %s", safe(it.OfferID, "-")),
		fmt.Sprintf("Booked at   : %s", it.BookedAt.Format("2006-01-02 15:04")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	if len(it.Segments) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Flights:")
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 11)
		for i, s := range it.Segments {
			pdf.MultiCell(0, 6, fmt.Sprintf("%d) %s%s  %s %s -> %s %s",
				i+1, s.Carrier, s.Number,
				s.From, safe(s.DepartsAt, "-"),
				s.To, safe(s.ArrivesAt, "-"),
			), "", "", false)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Fare: %s %s", it.Fare.StringFixed(2), strings.ToUpper(safe(it.Currency, "usd"))))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "The fare is the price frozen from the selected offer at booking time.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render itinerary: %w", err)
	}

	filename := fmt.Sprintf("ITINERARY_%s.pdf", safeFilenamePart(it.BookingID))
	return buf.Bytes(), filename, nil
}

func returnDate(t *time.Time) string {
	if t == nil {
		return "one way"
	}
	return t.Format("2006-01-02")
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "\"", "_")
	return replacer.Replace(s)
}
