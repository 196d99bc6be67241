package amadeus

import (
	"encoding/json"
	"fmt"
)

// Offer is one record of a flight-offers search. Raw keeps the provider's
// JSON untouched so it can be frozen into a booking.
type Offer struct {
	ID  string
	Raw json.RawMessage
}

func (o *Offer) UnmarshalJSON(data []byte) error {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decode offer: %w", err)
	}

	o.ID = head.ID
	o.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (o Offer) MarshalJSON() ([]byte, error) {
	if o.Raw == nil {
		return []byte("null"), nil
	}
	return o.Raw, nil
}

// FindOffer returns the first offer with the given id. Provider order decides
// which one wins when an id repeats.
func FindOffer(offers []Offer, id string) (Offer, bool) {
	for _, offer := range offers {
		if offer.ID == id {
			return offer, true
		}
	}
	return Offer{}, false
}
