package model

type Customer struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null" json:"name"`
}
