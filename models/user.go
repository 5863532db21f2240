package models

// User 后台用户，使用手机号登录
type User struct {
	Base     `bson:",inline"`
	Name     string `json:"name" gorm:"size:100;not null" bson:"name"`
	Phone    string `json:"phone" gorm:"size:30;uniqueIndex;not null" bson:"phone"`
	Email    string `json:"email,omitempty" gorm:"size:191" bson:"email,omitempty"`
	Password string `json:"-" gorm:"size:255;not null" bson:"password"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// UserProfile 对外返回的用户信息，不含密码
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Profile 转换为对外返回的用户信息
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:    u.ID,
		Name:  u.Name,
		Phone: u.Phone,
		Email: u.Email,
	}
}
