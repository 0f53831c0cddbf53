package domain

import "time"

type ServiceOrderStatus string

const (
	OrderStatusPending    ServiceOrderStatus = "pending"
	OrderStatusInProgress ServiceOrderStatus = "in_progress"
	OrderStatusCompleted  ServiceOrderStatus = "completed"
	OrderStatusCancelled  ServiceOrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s ServiceOrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ServiceOrder is a repair job for a client's device.
type ServiceOrder struct {
	ID          string             `json:"id"`
	ClientID    string             `json:"client_id"`
	DeviceID    string             `json:"device_id"`
	Status      ServiceOrderStatus `json:"status"`
	Price       float64            `json:"price"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
}

type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	CPF   string `json:"cpf"`
}

type Device struct {
	ID             string `json:"id"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	IMEI           string `json:"imei"`
	ConditionNotes string `json:"condition_notes"`
}
