package models

import "time"

/************************************************
/**** MARK: TENANT STATUS ****/
/************************************************/
const TENANT_STATUS_AVAILABLE = 0
const TENANT_STATUS_PENDING = 1
const TENANT_STATUS_BLOCKED = 2

// Tenant is a business owner operating one configured bot.
// Credits is the token balance debited per inference request; it is
// mutated only through the credits package (conditional update), never
// by plain writes.
type Tenant struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null" json:"name" form:"name"`
	Email     string     `gorm:"not null;unique" json:"email" form:"email"`
	ApiKey    string     `gorm:"column:api_key;unique_index" json:"-"`
	Credits   int64      `gorm:"not null;default:100" json:"credits"`
	Status    int        `gorm:"default:0" json:"status" form:"status"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
