package blog

// Entry represents a journal entry persisted in the database.
type Entry struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"type:text;not null"`
	Text  string `gorm:"type:text;not null"`
}

// TableName defines the table name for the Entry model.
func (Entry) TableName() string {
	return "entries"
}
