package entities

import "time"

type Household struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type HouseholdMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	HouseholdID uint      `gorm:"uniqueIndex:ux_household_member" json:"household_id"`
	UserID      string    `gorm:"uniqueIndex:ux_household_member;index" json:"user_id"`
	Role        string    `json:"role"` // owner|member
	CreatedAt   time.Time `json:"created_at"`
}

type HouseholdPlant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	HouseholdID uint      `gorm:"uniqueIndex:ux_household_plant" json:"household_id"`
	PlantID     uint      `gorm:"uniqueIndex:ux_household_plant;index" json:"plant_id"`
	SharedBy    string    `json:"shared_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskTypeSetting toggles one task type for a user. Missing rows mean enabled.
type TaskTypeSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"uniqueIndex:ux_task_type_setting" json:"user_id"`
	TaskType  string    `gorm:"uniqueIndex:ux_task_type_setting" json:"task_type"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}
