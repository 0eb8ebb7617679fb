package domain

// Destination is a travel destination offered by the agency.
type Destination struct {
	ID      string
	Name    string
	Country string
}
