package models

type Title struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"size:150;not null;index"`
	Year        *int   `json:"year,omitempty"`
	Description string `json:"description" gorm:"type:text;not null;default:''"`
	CategoryID  *int64 `json:"category_id,omitempty" gorm:"index"`

	// Rating is filled on read from the title's reviews and never stored.
	Rating *float64 `json:"rating,omitempty" gorm:"-"`

	// associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genre,omitempty" gorm:"many2many:genre_titles;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}

// GenreTitle is the explicit join row, used by the bulk importer.
type GenreTitle struct {
	TitleID int64 `gorm:"primaryKey"`
	GenreID int64 `gorm:"primaryKey"`
}

func (GenreTitle) TableName() string {
	return "genre_titles"
}
