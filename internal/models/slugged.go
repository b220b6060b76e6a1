package models

// Slugged is the shared shape of the two named-slug catalog entities.
// Category and Genre are two instantiations of it, not a hierarchy.
type Slugged struct {
	ID   int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;size:256;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;size:50;not null"`
}

type Category struct {
	Slugged
}

func (Category) TableName() string {
	return "categories"
}

type Genre struct {
	Slugged
}

func (Genre) TableName() string {
	return "genres"
}
