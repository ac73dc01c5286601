package models

import "time"

// Box is a blind box. Its fields are immutable once posted.
type Box struct {
	ID        int64     `json:"box_id"`
	OwnerID   int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

// BoxDetails is a box with its pictures and the names of the universities
// it is posted to.
type BoxDetails struct {
	Box
	Pictures     []string `json:"picture_list"`
	Universities []string `json:"university_list"`
}

// ViewRecord marks that a user opened a box. At most one exists per
// (UserID, BoxID); repeated views only move ViewedAt.
type ViewRecord struct {
	UserID   int64
	BoxID    int64
	ViewedAt time.Time
}

// ViewedBox is one entry of a user's history.
type ViewedBox struct {
	Box
	ViewedAt time.Time `json:"viewed_at"`
}
