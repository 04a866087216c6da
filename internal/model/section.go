package model

// DefaultSectionID is the reserved section every layout carries.  It cannot
// be deleted and receives the seats of deleted sections.
const DefaultSectionID = "default"

// DefaultSection returns a fresh copy of the reserved section.
func DefaultSection() Section {
	return Section{ID: DefaultSectionID, Name: "General Admission", Color: "#6b7280"}
}

// Section groups seats under a name, colour and optional price.
//
// Fields:
//
//	ID               – unique identifier ("default" is reserved).
//	Name             – display name.
//	Color            – fill colour for seats in the section.
//	TicketTypeID     – external ticket type supplying the price (optional).
//	CustomPriceCents – own price, used only when no ticket type is linked.
type Section struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Color            string `json:"color"`
	TicketTypeID     string `json:"ticketTypeId,omitempty"`
	CustomPriceCents *int64 `json:"customPriceCents,omitempty"`
}

// TicketType is a read-only priced ticket definition owned by the external
// catalog.
type TicketType struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// ResolvePrice returns the price shown for seats of sec.  A linked ticket
// type wins; otherwise the custom price is used.  ok is false when the
// section is unpriced, including when the linked ticket type is unknown.
func ResolvePrice(sec Section, ticketTypes []TicketType) (cents int64, ok bool) {
	if sec.TicketTypeID != "" {
		for _, tt := range ticketTypes {
			if tt.ID == sec.TicketTypeID {
				return tt.PriceCents, true
			}
		}
		return 0, false
	}
	if sec.CustomPriceCents != nil {
		return *sec.CustomPriceCents, true
	}
	return 0, false
}
