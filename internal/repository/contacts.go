package repository

import "cipherdoc/internal/models"

// ContactDirectory is the static list of registered contacts a partial
// document can be shared with. Certificate status is label-only data; no
// real validation is performed.
type ContactDirectory struct {
	contacts []models.Contact
}

// NewContactDirectory creates a directory with the given contacts.
func NewContactDirectory(contacts []models.Contact) *ContactDirectory {
	return &ContactDirectory{contacts: contacts}
}

// DefaultContacts returns the demo seed directory.
func DefaultContacts() []models.Contact {
	return []models.Contact{
		{ID: "u1", Name: "Ana Torres", Email: "ana@empresa.com", Phone: "+34 **** **321", Cert: models.CertValid},
		{ID: "u2", Name: "Luis Pérez", Email: "luis@empresa.com", Phone: "+34 **** **654", Cert: models.CertValid},
		{ID: "u3", Name: "Invitado QA", Email: "qa@labs.io", Phone: "+34 **** **987", Cert: models.CertExpiringSoon},
	}
}

// All returns every contact in directory order.
func (c *ContactDirectory) All() []models.Contact {
	out := make([]models.Contact, len(c.contacts))
	copy(out, c.contacts)
	return out
}

// ByID returns the contact with the given ID, if present.
func (c *ContactDirectory) ByID(id string) (models.Contact, bool) {
	for _, contact := range c.contacts {
		if contact.ID == id {
			return contact, true
		}
	}
	return models.Contact{}, false
}
