package models

// DefaultTestCategory is used when a doctor assigns a test without a category.
const DefaultTestCategory = "Strength"

type Test struct {
	ID          string `bson:"_id" json:"id"`
	PatientID   string `bson:"patientId" json:"patientId"`
	DoctorID    string `bson:"doctorId" json:"doctorId"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	DueDate     string `bson:"dueDate" json:"dueDate"`
	Completed   bool   `bson:"completed" json:"completed"`
	Results     string `bson:"results,omitempty" json:"results,omitempty"`
	Category    string `bson:"category" json:"category"`
}

// NewTest holds the doctor-supplied fields of a Test.
type NewTest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category"`
}
