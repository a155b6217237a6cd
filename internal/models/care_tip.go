package models

import "time"

// DefaultCareTipCategory is used when a doctor adds a tip without a category.
const DefaultCareTipCategory = "General Health"

type CareTip struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Category    string    `bson:"category" json:"category"`
	DoctorID    string    `bson:"doctorId" json:"doctorId"`
	PatientID   string    `bson:"patientId" json:"patientId"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

type NewCareTip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}
