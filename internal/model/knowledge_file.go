package model

import "time"

// KnowledgeFile is an uploaded document. Content holds the extracted plain
// text when available; files without extracted text keep their @name
// placeholder literal during prompt assembly.
type KnowledgeFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:256;not null;index" json:"name"`
	BlobKey   string    `gorm:"size:256;not null" json:"blob_key"`
	BlobURL   string    `gorm:"size:512" json:"blob_url"`
	Size      int64     `gorm:"not null" json:"size"`
	Type      string    `gorm:"size:128" json:"type"`
	Content   *string   `gorm:"type:mediumtext" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// HasContent reports whether extracted text is available for substitution.
func (f *KnowledgeFile) HasContent() bool {
	return f.Content != nil && *f.Content != ""
}
