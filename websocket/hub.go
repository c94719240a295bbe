package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MHaddad/fieldtrack_backend/models"
)

// Event types pushed to the admin dashboard and field devices.
const (
	EventReportSubmitted  = "report_submitted"
	EventReportApproved   = "report_approved"
	EventReportRejected   = "report_rejected"
	EventAttendanceLogin  = "attendance_login"
	EventAttendanceLogout = "attendance_logout"
)

// Event represents a message sent over WebSocket
type Event struct {
	Type       string      `json:"type"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	EmployeeID string      `json:"employeeId,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	EmployeeID primitive.ObjectID
	Role       string
	Conn       *websocket.Conn
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.EmployeeID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.EmployeeID]; ok && current == client {
				delete(h.clients, client.EmployeeID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToEmployee sends an event to a specific connected employee.
func (h *Hub) SendToEmployee(employeeID primitive.ObjectID, event Event) error {
	h.mu.RLock()
	client, ok := h.clients[employeeID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("employee not connected")
	}

	return client.Conn.WriteJSON(event)
}

// BroadcastToAdmins sends an event to every connected admin. Used for
// the live dashboard: report submissions and attendance changes.
func (h *Hub) BroadcastToAdmins(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.Role == models.RoleAdmin {
			client.Conn.WriteJSON(event)
		}
	}
}

// NotifyReportSubmitted pushes a new pending report to the admin dashboard.
func (h *Hub) NotifyReportSubmitted(bdeID primitive.ObjectID, reportData interface{}) {
	h.BroadcastToAdmins(Event{
		Type:       EventReportSubmitted,
		Message:    "New report awaiting approval",
		Data:       reportData,
		EmployeeID: bdeID.Hex(),
	})
}

// NotifyReportDecision pushes an approval or rejection to the authoring BDE.
func (h *Hub) NotifyReportDecision(bdeID primitive.ObjectID, eventType string, reportData interface{}) error {
	return h.SendToEmployee(bdeID, Event{
		Type:    eventType,
		Message: "Your report status has been updated",
		Data:    reportData,
	})
}

// NotifyAttendance pushes a login or logout event to the admin dashboard.
func (h *Hub) NotifyAttendance(employeeID primitive.ObjectID, eventType string, record interface{}) {
	h.BroadcastToAdmins(Event{
		Type:       eventType,
		Message:    "Attendance updated",
		Data:       record,
		EmployeeID: employeeID.Hex(),
	})
}
