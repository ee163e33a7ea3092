package domain

// Tag is a reference label attached to projects
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// Barangay is the smallest administrative division; projects are scoped to one or more
type Barangay struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(150);not null;uniqueIndex" json:"name"`
}

// TableName specifies the table name for Barangay
func (Barangay) TableName() string {
	return "barangays"
}
