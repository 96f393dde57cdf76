package model

import "time"

// CatalogItemModel is the GORM-specific struct for the 'servicios' table.
// Active and InStock carry no GORM default so that an explicit false is written.
type CatalogItemModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:nombre;type:varchar(100);not null"`
	Description string    `gorm:"column:descripcion;type:text;not null"`
	Price       float64   `gorm:"column:precio;type:decimal(10,2);not null"`
	InStock     bool      `gorm:"column:stock;not null"`
	Icon        string    `gorm:"column:icono;type:varchar(50);not null"`
	Active      bool      `gorm:"column:activo;not null"`
	CreatedAt   time.Time `gorm:"column:fecha_creacion;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:fecha_actualizacion;autoUpdateTime"`
}

// TableName explicitly sets the table name for GORM.
func (CatalogItemModel) TableName() string {
	return "servicios"
}
