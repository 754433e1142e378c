package domain

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the record type served by the demo grid. The field mix covers
// every built-in provider type, including nullable (pointer) attributes.
type Employee struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       *int       `json:"age"`
	Salary    float64    `json:"salary"`
	Active    bool       `json:"active"`
	HiredAt   time.Time  `json:"hiredAt"`
	ManagerID *uuid.UUID `json:"managerId"`
}
