package models

import "time"

// RedemptionCode grants premium once. A code is consumed when UsedBy is set.
type RedemptionCode struct {
	Code      string     `json:"code"`
	CreatedBy int64      `json:"created_by"`
	UsedBy    *int64     `json:"used_by,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

func (c *RedemptionCode) IsUsed() bool {
	return c.UsedBy != nil
}
