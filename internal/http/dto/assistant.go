package dto

import "time"

type SnoozeRequest struct {
	Until time.Time `json:"until" binding:"required"`
}
