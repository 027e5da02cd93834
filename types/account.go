package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account represents a registered person in the users collection.
// Password-based accounts carry a bcrypt hash; accounts created through
// Google sign-in store an empty hash and can never log in with a password.
type Account struct {
	// ID is the unique identifier of the account.
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// GoogleID is the Google subject id for provider-created accounts.
	// Unique when present.
	GoogleID string `bson:"googleId,omitempty" json:"googleId,omitempty"`

	// Name is the account's display name.
	Name string `bson:"name,omitempty" json:"name,omitempty"`

	// Email is the unique login key. Always stored lowercase.
	Email string `bson:"email" json:"email"`

	// Picture is a URL to the account's avatar.
	Picture string `bson:"picture,omitempty" json:"picture,omitempty"`

	// PasswordHash stores the bcrypt hash of the password. Empty for
	// provider-created accounts. Never exposed in API responses.
	PasswordHash string `bson:"password" json:"-"`

	// Phone is the account's contact number.
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`

	// Profile is the embedded profile sub-record. Replaced wholesale on
	// every profile save; nil until the first save.
	Profile *Profile `bson:"profile,omitempty" json:"profile,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Profile holds the free-form attributes collected by the profile form.
// All fields are optional strings; a save stores exactly the fields the
// caller supplied and nothing else.
type Profile struct {
	FullName             string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	FatherName           string `bson:"fatherName,omitempty" json:"fatherName,omitempty"`
	MotherName           string `bson:"motherName,omitempty" json:"motherName,omitempty"`
	SpouseName           string `bson:"spouseName,omitempty" json:"spouseName,omitempty"`
	DateOfBirth          string `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Age                  string `bson:"age,omitempty" json:"age,omitempty"`
	Gender               string `bson:"gender,omitempty" json:"gender,omitempty"`
	MaritalStatus        string `bson:"maritalStatus,omitempty" json:"maritalStatus,omitempty"`
	PhoneNumber          string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Pincode              string `bson:"pincode,omitempty" json:"pincode,omitempty"`
	State                string `bson:"state,omitempty" json:"state,omitempty"`
	District             string `bson:"district,omitempty" json:"district,omitempty"`
	UrbanRural           string `bson:"urbanRural,omitempty" json:"urbanRural,omitempty"`
	EducationLevel       string `bson:"educationLevel,omitempty" json:"educationLevel,omitempty"`
	Occupation           string `bson:"occupation,omitempty" json:"occupation,omitempty"`
	WorkSector           string `bson:"workSector,omitempty" json:"workSector,omitempty"`
	AnnualIncome         string `bson:"annualIncome,omitempty" json:"annualIncome,omitempty"`
	RationCardType       string `bson:"rationCardType,omitempty" json:"rationCardType,omitempty"`
	Disability           string `bson:"disability,omitempty" json:"disability,omitempty"`
	AadhaarLinked        string `bson:"aadhaarLinked,omitempty" json:"aadhaarLinked,omitempty"`
	GovtPreference       string `bson:"govtPreference,omitempty" json:"govtPreference,omitempty"`
	PreferredSector      string `bson:"preferredSector,omitempty" json:"preferredSector,omitempty"`
	BenefitType          string `bson:"benefitType,omitempty" json:"benefitType,omitempty"`
	EligibilityAwareness string `bson:"eligibilityAwareness,omitempty" json:"eligibilityAwareness,omitempty"`
}
