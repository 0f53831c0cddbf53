// Package orders tracks repair service orders and the clients and devices
// they reference. Orders persist as one JSON document under a fixed key;
// clients and devices live in memory, created alongside new orders.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fjod/repair_pos/internal/domain"
	"github.com/fjod/repair_pos/internal/store"
)

// StorageKey is the fixed document key for the order list.
const StorageKey = "erp-service-orders"

const saveTimeout = 5 * time.Second

var (
	ErrOrderNotFound = errors.New("service order not found")
	ErrInvalidStatus = errors.New("invalid service order status")
)

type Book struct {
	mu      sync.Mutex
	orders  []domain.ServiceOrder
	clients []domain.Client
	devices []domain.Device
	seq     uint64
	docs    store.DocumentStore

	saveMu   sync.Mutex
	savedSeq uint64
}

// New loads persisted orders, falling back to the seed dataset when nothing
// is stored or the document cannot be parsed.
func New(ctx context.Context, docs store.DocumentStore) *Book {
	b := &Book{
		clients: seedClients(),
		devices: seedDevices(),
		docs:    docs,
	}

	data, err := docs.Load(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("load service orders error, using seed data: %v", err)
		}
		b.orders = seedOrders()
		return b
	}
	if err := json.Unmarshal(data, &b.orders); err != nil {
		log.Printf("parse service orders error, using seed data: %v", err)
		b.orders = seedOrders()
	}
	return b
}

// CreateOrder registers a new repair job, materializing a client and device
// record from the submitted names. Contact details can be filled in later.
func (b *Book) CreateOrder(clientName, deviceModel, description string) domain.ServiceOrder {
	now := time.Now()
	client := domain.Client{
		ID:   fmt.Sprintf("cli-%d", now.UnixMilli()),
		Name: clientName,
	}
	device := domain.Device{
		ID:             fmt.Sprintf("dev-%d", now.UnixMilli()),
		Model:          deviceModel,
		ConditionNotes: description,
	}
	order := domain.ServiceOrder{
		ID:          fmt.Sprintf("so-%d", now.UnixMilli()),
		ClientID:    client.ID,
		DeviceID:    device.ID,
		Status:      domain.OrderStatusPending,
		Price:       0,
		Description: description,
		CreatedAt:   now,
	}

	b.mu.Lock()
	b.clients = append(b.clients, client)
	b.devices = append(b.devices, device)
	b.orders = append(b.orders, order)
	b.seq++
	seq := b.seq
	snapshot := b.snapshot()
	b.mu.Unlock()

	b.persist(snapshot, seq)
	return order
}

// UpdateStatus moves an order to a new state.
func (b *Book) UpdateStatus(orderID string, status domain.ServiceOrderStatus) error {
	if !domain.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}

	b.mu.Lock()
	found := false
	for i := range b.orders {
		if b.orders[i].ID == orderID {
			b.orders[i].Status = status
			found = true
			break
		}
	}
	var snapshot []domain.ServiceOrder
	var seq uint64
	if found {
		b.seq++
		seq = b.seq
		snapshot = b.snapshot()
	}
	b.mu.Unlock()

	if !found {
		return ErrOrderNotFound
	}
	b.persist(snapshot, seq)
	return nil
}

// Orders returns a copy of all service orders.
func (b *Book) Orders() []domain.ServiceOrder {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Book) Clients() []domain.Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Client, len(b.clients))
	copy(out, b.clients)
	return out
}

func (b *Book) Devices() []domain.Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Device, len(b.devices))
	copy(out, b.devices)
	return out
}

func (b *Book) snapshot() []domain.ServiceOrder {
	out := make([]domain.ServiceOrder, len(b.orders))
	copy(out, b.orders)
	return out
}

// persist rewrites the stored order document without blocking the caller.
// Saves are serialized under saveMu and skipped when a newer snapshot has
// already been stored. Failures are logged; in-memory state is not rolled
// back.
func (b *Book) persist(snapshot []domain.ServiceOrder, seq uint64) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("marshal service orders error: %v", err)
		return
	}
	go func() {
		b.saveMu.Lock()
		defer b.saveMu.Unlock()
		if seq < b.savedSeq {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := b.docs.Save(ctx, StorageKey, data); err != nil {
			log.Printf("save service orders error: %v", err)
			return
		}
		b.savedSeq = seq
	}()
}
