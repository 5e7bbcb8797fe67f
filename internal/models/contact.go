package models

import "strings"

// ContactMessage is a contact form submission.
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,basic_email"`
	Message string `json:"message" validate:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (m *ContactMessage) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
}
