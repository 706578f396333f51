package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Country struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Code           string             `bson:"code" json:"code" yaml:"code"`
	Name           string             `bson:"name" json:"name" yaml:"name"`
	Flag           string             `bson:"flag" json:"flag" yaml:"flag"`
	VisaRequired   bool               `bson:"visaRequired" json:"visaRequired" yaml:"visaRequired"`
	ProcessingTime *string            `bson:"processingTime,omitempty" json:"processingTime" yaml:"processingTime"`
	ValidityPeriod *string            `bson:"validityPeriod,omitempty" json:"validityPeriod" yaml:"validityPeriod"`
}

type FAQ struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Question  string             `bson:"question" json:"question" yaml:"question"`
	Answer    string             `bson:"answer" json:"answer" yaml:"answer"`
	Category  string             `bson:"category" json:"category" yaml:"category"`
	IsActive  bool               `bson:"isActive" json:"isActive" yaml:"isActive"`
	Order     int                `bson:"order" json:"order" yaml:"order"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt" yaml:"-"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt" yaml:"-"`
}

// FAQQuery filters the FAQ catalog. Only active entries are ever returned.
type FAQQuery struct {
	Category string
	Search   string
}

type FAQCreate struct {
	Question string `json:"question" validate:"required,min=10"`
	Answer   string `json:"answer" validate:"required,min=20"`
	Category string `json:"category" validate:"required,min=2"`
	Order    *int   `json:"order"`
}

type FAQUpdate struct {
	Question *string `json:"question" validate:"omitempty,min=10"`
	Answer   *string `json:"answer" validate:"omitempty,min=20"`
	Category *string `json:"category" validate:"omitempty,min=2"`
	IsActive *bool   `json:"isActive"`
	Order    *int    `json:"order"`
}
