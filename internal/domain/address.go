package domain

import "time"

// Address represents one shipping address owned by a customer identity.
// There is no separate customer entity: the email groups an individual's
// address documents.
type Address struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Street    string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Zip       string    `json:"zip,omitempty"`
	Default   bool      `json:"default"`
	CreatedAt time.Time `json:"created_at"`
}
