package models

// Student is a registered student account
type Student struct {
	ID            int64   `json:"id" example:"1"`
	StudentNumber string  `json:"studentNumber" example:"401234567"`
	Username      string  `json:"username" example:"401234567"`
	PasswordHash  string  `json:"passwordHash,omitempty"`
	FullName      string  `json:"fullName" example:"Mohammad Daneshjoo"`
	Email         string  `json:"email" example:"m.student@university.ac.ir"`
	Phone         string  `json:"phone,omitempty" example:"09123456789"`
	Major         string  `json:"major" example:"Computer Engineering"`
	EntryYear     string  `json:"entryYear" example:"1400"`
	Semester      int     `json:"semester" example:"6"`
	TotalUnits    int     `json:"totalUnits" example:"85"`
	GPA           float64 `json:"gpa" example:"17.8"`
}

// Public drops the password hash
func (s Student) Public() Student {
	s.PasswordHash = ""
	return s
}
