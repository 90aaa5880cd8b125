package model

// Catalog rows map canonical names to the numeric identifiers legacy
// consumers still key on. Seeded at migration time; read-mostly.

type CatalogoTipoMovimiento struct {
	ID     int    `gorm:"primaryKey"`
	Nombre string `gorm:"uniqueIndex;not null"`
}

func (CatalogoTipoMovimiento) TableName() string { return "catalogo_tipos_movimiento" }

type CatalogoMetodoPago struct {
	ID     int    `gorm:"primaryKey"`
	Nombre string `gorm:"uniqueIndex;not null"`
}

func (CatalogoMetodoPago) TableName() string { return "catalogo_metodos_pago" }
