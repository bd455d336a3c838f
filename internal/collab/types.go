package collab

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
)

// StatusOngoing is the default status for newly created projects.
const StatusOngoing = "Ongoing"

// Project is a research project grouping documents and messages.
type Project struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Description      string    `json:"description"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Document is uploaded file metadata attached to a project. File content
// itself stays outside this service.
type Document struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Date      time.Time `json:"date"`
}

// Message is a chat line within a project.
type Message struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Date      time.Time `json:"date"`
}
