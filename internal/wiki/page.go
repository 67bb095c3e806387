package wiki

import "time"

// Page represents a wiki page persisted in the database.
//
// Created and Updated default to the insertion time when left unset. The
// storage layer never refreshes Updated on modification; keeping it current
// is the caller's responsibility, which Service.UpdatePage takes on.
type Page struct {
	ID      uint      `gorm:"primaryKey"`
	Title   string    `gorm:"type:text;not null"`
	Content string    `gorm:"type:text;not null"`
	Created time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	Updated time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName defines the table name for the Page model.
func (Page) TableName() string {
	return "wiki_pages"
}
