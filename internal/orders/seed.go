package orders

import (
	"time"

	"github.com/fjod/repair_pos/internal/domain"
)

// Seed data shown on a fresh install, before any order is persisted. Also
// the fallback when the stored order document cannot be read.

func seedClients() []domain.Client {
	return []domain.Client{
		{ID: "cli-001", Name: "João Silva", Phone: "(11) 98765-4321", CPF: "123.456.789-00"},
		{ID: "cli-002", Name: "Maria Oliveira", Phone: "(21) 99876-5432", CPF: "987.654.321-00"},
		{ID: "cli-003", Name: "Carlos Santos", Phone: "(31) 91234-5678", CPF: "456.789.123-00"},
	}
}

func seedDevices() []domain.Device {
	return []domain.Device{
		{ID: "dev-001", Brand: "Samsung", Model: "Galaxy S21", IMEI: "123456789012345", ConditionNotes: "Tela trincada no canto superior direito"},
		{ID: "dev-002", Brand: "Apple", Model: "iPhone 13", IMEI: "987654321098765", ConditionNotes: "Bateria inchada, necessita troca urgente"},
		{ID: "dev-003", Brand: "Xiaomi", Model: "Redmi Note 10", IMEI: "456789123456789", ConditionNotes: "Conector de carga não funciona"},
	}
}

func seedOrders() []domain.ServiceOrder {
	tz := time.FixedZone("-03", -3*60*60)
	return []domain.ServiceOrder{
		{
			ID:          "so-001",
			ClientID:    "cli-001",
			DeviceID:    "dev-001",
			Status:      domain.OrderStatusInProgress,
			Price:       350.00,
			Description: "Troca de tela LCD + proteção",
			CreatedAt:   time.Date(2025, 11, 18, 10, 30, 0, 0, tz),
		},
		{
			ID:          "so-002",
			ClientID:    "cli-002",
			DeviceID:    "dev-002",
			Status:      domain.OrderStatusPending,
			Price:       450.00,
			Description: "Substituição de bateria original",
			CreatedAt:   time.Date(2025, 11, 19, 14, 15, 0, 0, tz),
		},
		{
			ID:          "so-003",
			ClientID:    "cli-003",
			DeviceID:    "dev-003",
			Status:      domain.OrderStatusCompleted,
			Price:       120.00,
			Description: "Reparo do conector USB-C",
			CreatedAt:   time.Date(2025, 11, 15, 9, 0, 0, 0, tz),
		},
	}
}
