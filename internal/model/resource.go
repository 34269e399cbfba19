package model

import "time"

// The three tenant-scoped resource types below all hang off a school via
// SchoolCode. There is deliberately no per-row owner: resources belong to
// the school, and write access is decided entirely by the authz engine
// (the school's admin writes, members read).

// Scholarship is a funding opportunity published to a school.
type Scholarship struct {
	ID          uint64    `json:"id"`          // scholarships.id
	SchoolCode  string    `json:"school_code"` // scholarships.school_code
	Title       string    `json:"title"`       // scholarships.title
	Description string    `json:"description"` // scholarships.description
	Amount      int64     `json:"amount"`      // scholarships.amount (whole currency units)
	Deadline    time.Time `json:"deadline"`    // scholarships.deadline
	Eligibility string    `json:"eligibility"` // scholarships.eligibility
	CreatedAt   time.Time `json:"created_at"`  // scholarships.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // scholarships.updated_at
}

// Fee is a payment item owed by students of a school.
type Fee struct {
	ID          uint64    `json:"id"`          // fees.id
	SchoolCode  string    `json:"school_code"` // fees.school_code
	Title       string    `json:"title"`       // fees.title
	Description string    `json:"description"` // fees.description
	Amount      int64     `json:"amount"`      // fees.amount
	DueDate     time.Time `json:"due_date"`    // fees.due_date
	Category    string    `json:"category"`    // fees.category
	CreatedAt   time.Time `json:"created_at"`  // fees.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // fees.updated_at
}

// Notice priorities. Unknown values are rejected at the handler layer;
// the column defaults to PriorityNormal.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Notice is an announcement posted to a school's feed.
type Notice struct {
	ID         uint64    `json:"id"`          // notices.id
	SchoolCode string    `json:"school_code"` // notices.school_code
	Title      string    `json:"title"`       // notices.title
	Content    string    `json:"content"`     // notices.content
	Priority   string    `json:"priority"`    // notices.priority
	CreatedAt  time.Time `json:"created_at"`  // notices.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // notices.updated_at
}
