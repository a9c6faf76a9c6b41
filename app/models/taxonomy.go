package models

import "time"

// Category groups products; the slug is unique and derived from the name.
type Category struct {
	ID        string    `json:"id"              bson:"_id"             gorm:"primaryKey;size:36"`
	Name      string    `json:"name"            bson:"name"            gorm:"size:120;not null"`
	Slug      string    `json:"slug"            bson:"slug"            gorm:"size:140;not null;uniqueIndex"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt"       bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"       bson:"updatedAt"`

	ImageURL string `json:"imageUrl,omitempty" bson:"-" gorm:"-"`
}

type Color struct {
	ID        string    `json:"id"                bson:"_id"               gorm:"primaryKey;size:36"`
	Name      string    `json:"name"              bson:"name"              gorm:"size:60;not null;uniqueIndex"`
	HexCode   string    `json:"hexCode,omitempty" bson:"hexCode,omitempty" gorm:"size:7"`
	CreatedAt time.Time `json:"createdAt"         bson:"createdAt"`
}

type Size struct {
	ID        string    `json:"id"        bson:"_id"       gorm:"primaryKey;size:36"`
	Name      string    `json:"name"      bson:"name"      gorm:"size:30;not null;uniqueIndex"`
	SortOrder int       `json:"sortOrder" bson:"sortOrder" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
