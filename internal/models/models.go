package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"gorm.io/gorm"
)

const (
	UserTypeShop  = "shop"
	UserTypeBuyer = "buyer"
)

const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusAssembled = "assembled"
	OrderStatusSent      = "sent"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// OrderStatuses lists every value the status column accepts. There is no
// transition graph: any status can follow any other.
var OrderStatuses = []string{
	OrderStatusNew,
	OrderStatusConfirmed,
	OrderStatusAssembled,
	OrderStatusSent,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	Username     string `gorm:"not null"                 json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company"`
	Position     string `json:"position"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Type         string `gorm:"not null;default:buyer"   json:"type"`
	IsActive     bool   `gorm:"default:false"            json:"is_active"`
	IsStaff      bool   `gorm:"default:false"            json:"-"`
	IsSuperuser  bool   `gorm:"default:false"            json:"-"`
}

type Shop struct {
	ID     uint    `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name   string  `gorm:"not null"                    json:"name"`
	URL    *string `json:"url,omitempty"`
	UserID *uint   `gorm:"uniqueIndex"                 json:"user_id,omitempty"`
	User   *User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	State  bool    `gorm:"default:true"                json:"state"`
}

type Category struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Shops []Shop `gorm:"many2many:category_shops" json:"-"`
}

type Product struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name       string    `gorm:"not null"                    json:"name"`
	CategoryID *uint     `json:"category_id,omitempty"`
	Category   *Category `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ProductInfo is a shop's listing of a product variant with its own price
// and quantity. One row per (product, shop, external_id).
type ProductInfo struct {
	ID         uint     `gorm:"primaryKey;autoIncrement"               json:"id"`
	ExternalID uint     `gorm:"not null;uniqueIndex:uniq_product_info" json:"external_id"`
	Name       string   `gorm:"not null"                               json:"name"`
	ShopID     uint     `gorm:"not null;uniqueIndex:uniq_product_info" json:"shop_id"`
	Shop       *Shop    `gorm:"constraint:OnDelete:CASCADE"            json:"-"`
	ProductID  uint     `gorm:"not null;uniqueIndex:uniq_product_info" json:"product_id"`
	Product    *Product `gorm:"constraint:OnDelete:CASCADE"            json:"-"`
	Quantity   uint     `gorm:"not null"                               json:"quantity"`
	Price      uint     `gorm:"not null"                               json:"price"`
	PriceRRC   uint     `gorm:"not null"                               json:"price_rrc"`
}

type Parameter struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
}

type ProductParameter struct {
	ID            uint         `gorm:"primaryKey;autoIncrement"                    json:"id"`
	ProductInfoID uint         `gorm:"not null;uniqueIndex:uniq_product_parameter" json:"product_info_id"`
	ProductInfo   *ProductInfo `gorm:"constraint:OnDelete:CASCADE"                 json:"-"`
	ParameterID   uint         `gorm:"not null;uniqueIndex:uniq_product_parameter" json:"parameter_id"`
	Parameter     *Parameter   `gorm:"constraint:OnDelete:CASCADE"                 json:"-"`
	Value         string       `gorm:"not null"                                    json:"value"`
}

type Contact struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID    uint   `gorm:"index;not null"              json:"user_id"`
	User      *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	City      string `gorm:"not null"                    json:"city"`
	Street    string `gorm:"not null"                    json:"street"`
	House     string `json:"house"`
	Structure string `json:"structure"`
	Building  string `json:"building"`
	Apartment string `json:"apartment"`
	Phone     string `gorm:"not null"                    json:"phone"`
}

type Order struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID    uint      `gorm:"index;not null"              json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime"              json:"created_at"`
	Status    string    `gorm:"not null;default:new"        json:"status"`
	ContactID *uint     `json:"contact_id,omitempty"`
	Contact   *Contact  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type OrderItem struct {
	ID            uint         `gorm:"primaryKey;autoIncrement"             json:"id"`
	OrderID       uint         `gorm:"not null;uniqueIndex:uniq_order_item" json:"order_id"`
	Order         *Order       `gorm:"constraint:OnDelete:CASCADE"          json:"-"`
	ProductInfoID uint         `gorm:"not null;uniqueIndex:uniq_order_item" json:"product_info_id"`
	ProductInfo   *ProductInfo `gorm:"constraint:OnDelete:CASCADE"          json:"-"`
	Quantity      uint         `gorm:"not null;check:quantity>0"            json:"quantity"`
}

// ConfirmEmailToken proves control of an e-mail address. The same token kind
// serves registration confirmation and password reset.
type ConfirmEmailToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID    uint      `gorm:"index;not null"              json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime"              json:"created_at"`
	Key       string    `gorm:"size:64;uniqueIndex"         json:"key"`
}

// BeforeSave fills in the key on first save if the caller left it empty.
func (t *ConfirmEmailToken) BeforeSave(tx *gorm.DB) error {
	if t.Key == "" {
		key, err := GenerateTokenKey()
		if err != nil {
			return err
		}
		t.Key = key
	}
	return nil
}

// GenerateTokenKey returns an opaque random key, 64 hex chars.
func GenerateTokenKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// All returns every model for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Shop{},
		&Category{},
		&Product{},
		&ProductInfo{},
		&Parameter{},
		&ProductParameter{},
		&Contact{},
		&Order{},
		&OrderItem{},
		&ConfirmEmailToken{},
	}
}
