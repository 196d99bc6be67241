package request

// Missing origin, destination or departure date is reported by the service
// as a missing parameter.
type SearchFlightsRequest struct {
	Origin        string
	Destination   string
	DepartureDate string
	Adults        int `validate:"omitempty,min=1,max=9"`
}
