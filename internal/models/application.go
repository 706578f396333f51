package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationStatus string

const (
	StatusDraft      ApplicationStatus = "draft"
	StatusSubmitted  ApplicationStatus = "submitted"
	StatusProcessing ApplicationStatus = "processing"
	StatusApproved   ApplicationStatus = "approved"
	StatusRejected   ApplicationStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type DocumentType string

const (
	DocPassport         DocumentType = "passport"
	DocPhoto            DocumentType = "photo"
	DocBankStatement    DocumentType = "bank_statement"
	DocEmploymentLetter DocumentType = "employment_letter"
	DocTravelItinerary  DocumentType = "travel_itinerary"
	DocHotelBooking     DocumentType = "hotel_booking"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocPassport, DocPhoto, DocBankStatement, DocEmploymentLetter, DocTravelItinerary, DocHotelBooking:
		return true
	}
	return false
}

const DefaultCurrency = "USD"

type VisaType struct {
	ID       string `bson:"id" json:"id" validate:"required"`
	Name     string `bson:"name" json:"name" validate:"required"`
	Duration string `bson:"duration" json:"duration" validate:"required"`
	Validity string `bson:"validity" json:"validity" validate:"required"`
	Price    *Money `bson:"price" json:"price" validate:"required"`
}

// Dates inside the form sub-records are plain YYYY-MM-DD strings.
type PersonalInfo struct {
	FullName     *string `bson:"fullName" json:"fullName"`
	Email        *string `bson:"email" json:"email" validate:"omitempty,email"`
	Phone        *string `bson:"phone" json:"phone"`
	Citizenship  *string `bson:"citizenship" json:"citizenship"`
	DateOfBirth  *string `bson:"dateOfBirth" json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	PlaceOfBirth *string `bson:"placeOfBirth" json:"placeOfBirth"`
	Gender       *string `bson:"gender" json:"gender"`
}

type TravelDetails struct {
	Purpose        *string `bson:"purpose" json:"purpose"`
	ArrivalDate    *string `bson:"arrivalDate" json:"arrivalDate" validate:"omitempty,datetime=2006-01-02"`
	DepartureDate  *string `bson:"departureDate" json:"departureDate" validate:"omitempty,datetime=2006-01-02"`
	Duration       *int    `bson:"duration" json:"duration" validate:"omitempty,gte=0"`
	Accommodation  *string `bson:"accommodation" json:"accommodation"`
	PreviousVisits bool    `bson:"previousVisits" json:"previousVisits"`
}

type PassportInfo struct {
	Number         *string `bson:"number" json:"number"`
	IssueDate      *string `bson:"issueDate" json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate     *string `bson:"expiryDate" json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	IssuingCountry *string `bson:"issuingCountry" json:"issuingCountry"`
}

type Document struct {
	Type         DocumentType `bson:"type" json:"type"`
	FileName     string       `bson:"fileName" json:"fileName"`
	FileURL      string       `bson:"fileUrl" json:"fileUrl"`
	FileKey      string       `bson:"fileKey,omitempty" json:"-"`
	ThumbnailKey string       `bson:"thumbnailKey,omitempty" json:"-"`
	ContentType  string       `bson:"contentType,omitempty" json:"contentType,omitempty"`
	Size         int64        `bson:"size,omitempty" json:"size,omitempty"`
	UploadedAt   time.Time    `bson:"uploadedAt" json:"uploadedAt"`
}

type Payment struct {
	Status        PaymentStatus `bson:"status" json:"status"`
	Amount        *Money        `bson:"amount" json:"amount"`
	Currency      string        `bson:"currency" json:"currency"`
	TransactionID *string       `bson:"transactionId" json:"transactionId"`
	PaidAt        *time.Time    `bson:"paidAt" json:"paidAt"`
}

// VisaApplication is a multi-step application draft owned by exactly one user.
type VisaApplication struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"userId" json:"userId"`
	ApplicationNumber string             `bson:"applicationNumber" json:"applicationNumber"`
	Status            ApplicationStatus  `bson:"status" json:"status"`
	VisaType          *VisaType          `bson:"visaType" json:"visaType"`
	PersonalInfo      PersonalInfo       `bson:"personalInfo" json:"personalInfo"`
	TravelDetails     TravelDetails      `bson:"travelDetails" json:"travelDetails"`
	PassportInfo      PassportInfo       `bson:"passportInfo" json:"passportInfo"`
	Documents         []Document         `bson:"documents" json:"documents"`
	Payment           Payment            `bson:"payment" json:"payment"`
	CurrentStep       int                `bson:"currentStep" json:"currentStep"`
	CompletedSteps    []int              `bson:"completedSteps" json:"completedSteps"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
	SubmittedAt       *time.Time         `bson:"submittedAt" json:"submittedAt"`
}

type CreateApplication struct {
	VisaType      *VisaType      `json:"visaType" validate:"omitempty"`
	PersonalInfo  *PersonalInfo  `json:"personalInfo" validate:"omitempty"`
	TravelDetails *TravelDetails `json:"travelDetails" validate:"omitempty"`
	PassportInfo  *PassportInfo  `json:"passportInfo" validate:"omitempty"`
}

// ApplicationUpdate replaces each non-nil sub-record wholesale.
type ApplicationUpdate struct {
	VisaType       *VisaType      `json:"visaType" validate:"omitempty"`
	PersonalInfo   *PersonalInfo  `json:"personalInfo" validate:"omitempty"`
	TravelDetails  *TravelDetails `json:"travelDetails" validate:"omitempty"`
	PassportInfo   *PassportInfo  `json:"passportInfo" validate:"omitempty"`
	CurrentStep    *int           `json:"currentStep" validate:"omitempty,gte=1"`
	CompletedSteps *[]int         `json:"completedSteps"`
}

type CreatedApplication struct {
	ApplicationID     string `json:"application_id"`
	ApplicationNumber string `json:"application_number"`
}

// DocumentUpload is a file received for an application before it is stored.
type DocumentUpload struct {
	Type        DocumentType
	FileName    string
	ContentType string
	Data        []byte
}
