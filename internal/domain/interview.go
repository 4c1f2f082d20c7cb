package domain

import "time"

// Interview representa una entrevista simulada de un usuario.
type Interview struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Type      string    `json:"type,omitempty"`
	Level     string    `json:"level,omitempty"`
	Techstack []string  `json:"techstack,omitempty"`
	Questions []string  `json:"questions,omitempty"`
	Finalized bool      `json:"finalized"`
	CreatedAt time.Time `json:"created_at"`
}
