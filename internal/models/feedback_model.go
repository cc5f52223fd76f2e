package models

import "time"

type Feedback struct {
	ID            int64     `db:"id" json:"id"`
	FeedbackID    string    `db:"feedback_id" json:"feedback_id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Message       string    `db:"message" json:"message"`
	ScreenshotKey string    `db:"screenshot_key" json:"screenshot_key"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
