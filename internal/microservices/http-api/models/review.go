package models

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

type Review struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID  int64     `json:"title_id" gorm:"not null;uniqueIndex:reviews_title_id_author_id_key"`
	AuthorID int64     `json:"author_id" gorm:"not null;uniqueIndex:reviews_title_id_author_id_key"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"type:smallint;not null;index;check:score >= 1 AND score <= 10"`
	PubDate  time.Time `json:"pub_date" gorm:"not null;index;autoCreateTime"`

	// Associations
	Author *User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  *Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
