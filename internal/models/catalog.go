package models

type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:200;not null;uniqueIndex" json:"name" yaml:"name" validate:"required,max=200"`
	Color string `gorm:"size:7;not null" json:"color" yaml:"color" validate:"required,hexcolor,len=7"`
	Slug  string `gorm:"size:200;not null;uniqueIndex" json:"slug" yaml:"slug" validate:"required,max=200,slug"`
}

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name" validate:"required,max=200"`
	MeasurementUnit string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit" validate:"required,max=200"`
}
