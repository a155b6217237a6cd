package models

type Milestone struct {
	ID          string `bson:"_id" json:"id"`
	PatientID   string `bson:"patientId" json:"patientId"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Completed   bool   `bson:"completed" json:"completed"`
	DueDate     string `bson:"dueDate" json:"dueDate"`
	Category    string `bson:"category" json:"category"`
	Points      int    `bson:"points" json:"points"`
}
