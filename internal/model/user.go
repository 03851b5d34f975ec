package model

// User 本地身份记录，Profile.ID 与其 ID 相同
// swagger:model User
type User struct {
	UUIDBase
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}
