package model

// AccountModel is the GORM-specific struct for the 'usuarios' table.
type AccountModel struct {
	ID       int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string  `gorm:"column:nombre;type:varchar(100);not null"`
	Email    string  `gorm:"column:correo;type:varchar(100);not null;uniqueIndex:idx_usuarios_correo"`
	Password *string `gorm:"column:password;type:varchar(255)"`
	Role     string  `gorm:"column:rol;type:varchar(20);not null;default:user"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "usuarios"
}
