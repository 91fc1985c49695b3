package entity

import "time"

// PrintRecord is one printed invoice/label pair, fingerprinted by the content
// hash of its pages. The hash detects reprints across jobs.
type PrintRecord struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	JobID       string    `json:"job_id" gorm:"size:36;not null;index"`
	OrderID     string    `json:"order_id" gorm:"size:64;index"`
	ContentHash string    `json:"content_hash" gorm:"size:16;not null;index"`
	SKUs        JSONB     `json:"skus" gorm:"type:jsonb"`
	HasDanfe    bool      `json:"has_danfe"`
	CreatedAt   time.Time `json:"created_at"`
}

func (PrintRecord) TableName() string {
	return "print_records"
}
