package models

import "time"

type OrderStatus string

const (
	OrderStatusPendingPayment  OrderStatus = "pending_payment"
	OrderStatusPaymentUploaded OrderStatus = "payment_uploaded"
	OrderStatusPaymentVerified OrderStatus = "payment_verified"
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusRefundRequested OrderStatus = "refund_requested"
	OrderStatusRefunded        OrderStatus = "refunded"
)

// OrderTransitions is the set of admin-driven status changes. Payment
// upload and verification move orders through the earlier states on
// their own endpoints.
var OrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPaymentVerified: {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:         {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:       {OrderStatusRefunded},
	OrderStatusCancelled:       {},
	OrderStatusRefunded:        {},
}

// CanTransition reports whether an admin may move an order from one
// status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range OrderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID                uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber       string             `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID            uint               `gorm:"index;not null" json:"user_id"`
	User              User               `gorm:"foreignKey:UserID" json:"-"`
	ShippingAddressID uint               `json:"shipping_address_id"`
	ShippingAddress   Address            `gorm:"foreignKey:ShippingAddressID" json:"shipping_address,omitempty"`
	Items             []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	PaymentDetail     *PaymentDetail     `gorm:"foreignKey:OrderID" json:"payment_detail,omitempty"`
	StatusHistory     []OrderStatusEntry `gorm:"foreignKey:OrderID" json:"status_history,omitempty"`
	TotalAmount       float64            `gorm:"not null" json:"total_amount"`
	ShippingCost      float64            `json:"shipping_cost"`
	PaymentMethod     string             `gorm:"not null" json:"payment_method"` // bank_transfer | e-wallet
	Status            OrderStatus        `gorm:"type:VARCHAR(20);default:'pending_payment'" json:"status"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// OrderItem snapshots the unit price at checkout; later price changes
// never affect an existing order.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint    `gorm:"index;not null" json:"order_id"`
	ProductID   uint    `gorm:"not null" json:"product_id"`
	ProductName string  `json:"product_name"`
	ProductSlug string  `json:"product_slug"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `gorm:"not null" json:"price"`
	Quantity    int     `gorm:"not null" json:"quantity"`
}

type PaymentDetail struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          uint       `gorm:"uniqueIndex;not null" json:"order_id"`
	PaymentMethod    string     `json:"payment_method"`
	TransferProofURL string     `json:"transfer_proof_url"`
	PaymentAmount    float64    `json:"payment_amount"`
	PaymentDate      time.Time  `json:"payment_date"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
}

// OrderStatusEntry is the audit trail row written on each status change.
type OrderStatusEntry struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint        `gorm:"index;not null" json:"order_id"`
	Status    OrderStatus `gorm:"type:VARCHAR(20);not null" json:"status"`
	Notes     string      `json:"notes,omitempty"`
	ChangedBy *uint       `json:"changed_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type RefundRequest struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	Reason    string    `gorm:"not null" json:"reason"`
	Status    string    `gorm:"default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
