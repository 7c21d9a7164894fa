package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"racetally/domain/jobs"
	"racetally/interfaces/web/presenters"
	"racetally/logging"
)

// SSEClient represents a connected Server-Sent Events client.
type SSEClient struct {
	id       string
	writer   http.ResponseWriter
	flusher  http.Flusher
	done     chan struct{}
	lastSent time.Time
}

// SSEManager manages Server-Sent Events connections and real-time broadcasting.
// Handles job status updates and live list refreshes.
type SSEManager struct {
	clients      map[string]*SSEClient
	mu           sync.RWMutex
	appCtx       context.Context
	logger       *logging.Logger
	jobPresenter *presenters.JobPresenter
}

// NewSSEManager creates a new SSE connection manager with cleanup routines.
// The manager stops its background routine when appCtx is cancelled.
func NewSSEManager(appCtx context.Context) *SSEManager {
	manager := &SSEManager{
		clients:      make(map[string]*SSEClient),
		appCtx:       appCtx,
		logger:       logging.Default().WithComponent("sse_manager"),
		jobPresenter: presenters.NewJobPresenter(),
	}

	// Start cleanup routine for stale connections
	go manager.cleanupRoutine()

	return manager
}

// AddClient adds a new SSE client connection
func (s *SSEManager) AddClient(clientID string, w http.ResponseWriter) *SSEClient {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("Response writer does not support flushing")
		return nil
	}

	// Immediate flush to establish connection
	flusher.Flush()

	client := &SSEClient{
		id:       clientID,
		writer:   w,
		flusher:  flusher,
		done:     make(chan struct{}),
		lastSent: time.Now(),
	}

	s.mu.Lock()
	s.clients[clientID] = client
	s.mu.Unlock()

	s.logger.Info("SSE client connected", "client_id", clientID, "total_clients", len(s.clients))

	// Send initial connection message as comment
	s.sendToClient(client, "connected", fmt.Sprintf("Connected client %s", clientID))

	return client
}

// RemoveClient removes an SSE client connection
func (s *SSEManager) RemoveClient(clientID string) {
	s.mu.Lock()
	client, exists := s.clients[clientID]
	if exists {
		delete(s.clients, clientID)
	}
	s.mu.Unlock()

	if exists {
		// Close channel outside of lock to prevent double-close panic
		select {
		case <-client.done:
			// Already closed
		default:
			close(client.done)
		}
		s.logger.Info("SSE client disconnected", "client_id", clientID)
	}
}

// CloseAll disconnects every client, used during shutdown.
func (s *SSEManager) CloseAll() {
	s.mu.Lock()
	clientIDs := make([]string, 0, len(s.clients))
	for clientID := range s.clients {
		clientIDs = append(clientIDs, clientID)
	}
	s.mu.Unlock()

	for _, clientID := range clientIDs {
		s.RemoveClient(clientID)
	}

	s.logger.Info("Closed all SSE connections", "count", len(clientIDs))
}

// BroadcastJobUpdate broadcasts a job status update to all connected clients
func (s *SSEManager) BroadcastJobUpdate(jobID string, data string) {
	// Copy clients list to avoid holding lock during I/O
	s.mu.RLock()
	clientList := make(map[string]*SSEClient, len(s.clients))
	for id, client := range s.clients {
		clientList[id] = client
	}
	s.mu.RUnlock()

	event := fmt.Sprintf("job:%s:updated", jobID)
	failedClients := []string{}

	for clientID, client := range clientList {
		if err := s.sendToClient(client, event, data); err != nil {
			s.logger.Warn("Failed to send job update to client",
				"client_id", clientID,
				"job_id", jobID,
				"error", err)
			failedClients = append(failedClients, clientID)
		}
	}

	// Remove failed clients after broadcasting
	for _, clientID := range failedClients {
		s.RemoveClient(clientID)
	}
}

// BroadcastJobListUpdate broadcasts that the job list has changed
func (s *SSEManager) BroadcastJobListUpdate() {
	// Copy clients list to avoid holding lock during I/O
	s.mu.RLock()
	if len(s.clients) == 0 {
		s.mu.RUnlock()
		s.logger.Debug("No SSE clients connected, skipping job list update broadcast")
		return
	}

	clientList := make(map[string]*SSEClient, len(s.clients))
	for id, client := range s.clients {
		clientList[id] = client
	}
	s.mu.RUnlock()

	successCount := 0
	failedClients := []string{}
	message := `{"action": "refresh", "timestamp": "` + time.Now().Format(time.RFC3339) + `"}`

	for clientID, client := range clientList {
		if err := s.sendToClient(client, "jobs-updated", message); err != nil {
			s.logger.Warn("Failed to send job list update to client",
				"client_id", clientID,
				"error", err)
			failedClients = append(failedClients, clientID)
		} else {
			successCount++
		}
	}

	// Remove failed clients after broadcasting
	for _, clientID := range failedClients {
		s.RemoveClient(clientID)
	}

	s.logger.Debug("Broadcasted job list update",
		"total_clients", len(clientList),
		"successful", successCount,
		"failed", len(failedClients))
}

// BroadcastEventsUpdate broadcasts that the events table has changed
func (s *SSEManager) BroadcastEventsUpdate() {
	// Copy clients list to avoid holding lock during I/O
	s.mu.RLock()
	if len(s.clients) == 0 {
		s.mu.RUnlock()
		s.logger.Debug("No SSE clients connected, skipping events update broadcast")
		return
	}

	clientList := make(map[string]*SSEClient, len(s.clients))
	for id, client := range s.clients {
		clientList[id] = client
	}
	s.mu.RUnlock()

	successCount := 0
	failedClients := []string{}
	message := `{"action": "refresh", "timestamp": "` + time.Now().Format(time.RFC3339) + `"}`

	for clientID, client := range clientList {
		if err := s.sendToClient(client, "events-updated", message); err != nil {
			s.logger.Warn("Failed to send events update to client",
				"client_id", clientID,
				"error", err)
			failedClients = append(failedClients, clientID)
		} else {
			successCount++
		}
	}

	// Remove failed clients after broadcasting
	for _, clientID := range failedClients {
		s.RemoveClient(clientID)
	}

	s.logger.Debug("Broadcasted events update",
		"total_clients", len(clientList),
		"successful", successCount,
		"failed", len(failedClients))
}

// NotifyUpdate implements the update notifier interface
func (s *SSEManager) NotifyUpdate() {
	s.BroadcastJobListUpdate()
}

// NotifyJobUpdate implements the update notifier interface for job-specific updates
func (s *SSEManager) NotifyJobUpdate(jobID string, job *jobs.Job) {
	if view := s.jobPresenter.FormatJob(job); view != nil {
		if data, err := json.Marshal(view); err == nil {
			s.BroadcastJobUpdate(jobID, string(data))
		} else {
			s.logger.Error("Failed to encode job update", "job_id", jobID, "error", err)
		}
	}

	s.BroadcastJobListUpdate()
}

// sendToClient sends an SSE message to a specific client
func (s *SSEManager) sendToClient(client *SSEClient, event, data string) error {
	select {
	case <-client.done:
		return fmt.Errorf("client connection closed")
	default:
	}

	// Keep-alive and connection notices go out as comments so clients
	// that dispatch on event names never see them.
	var message string
	if event == "keepalive" || event == "connected" {
		message = fmt.Sprintf(": %s\n\n", data)
	} else {
		message = fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)
	}

	_, err := client.writer.Write([]byte(message))
	if err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	client.flusher.Flush()
	client.lastSent = time.Now()

	return nil
}

// SendKeepAlive sends keep-alive messages to all clients
func (s *SSEManager) SendKeepAlive() {
	// Copy clients list to avoid holding lock during I/O
	s.mu.RLock()
	clientList := make(map[string]*SSEClient, len(s.clients))
	for id, client := range s.clients {
		clientList[id] = client
	}
	s.mu.RUnlock()

	failedClients := []string{}
	for clientID, client := range clientList {
		if err := s.sendToClient(client, "keepalive", `{"timestamp": "`+time.Now().Format(time.RFC3339)+`"}`); err != nil {
			s.logger.Debug("Keep-alive failed, removing client", "client_id", clientID)
			failedClients = append(failedClients, clientID)
		}
	}

	// Remove failed clients after keep-alive
	for _, clientID := range failedClients {
		s.RemoveClient(clientID)
	}
}

// cleanupRoutine periodically cleans up stale connections
func (s *SSEManager) cleanupRoutine() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.appCtx.Done():
			return
		case <-ticker.C:
		}

		s.SendKeepAlive()

		// Remove clients that haven't received messages in a while
		s.mu.Lock()
		staleThreshold := time.Now().Add(-2 * time.Minute)
		staleClients := []string{}
		for clientID, client := range s.clients {
			if client.lastSent.Before(staleThreshold) {
				s.logger.Info("Removing stale SSE client", "client_id", clientID)
				staleClients = append(staleClients, clientID)
			}
		}
		s.mu.Unlock()

		// Remove stale clients outside of lock
		for _, clientID := range staleClients {
			s.RemoveClient(clientID)
		}
	}
}

// HandleSSEConnection handles the SSE endpoint
func (s *SSEManager) HandleSSEConnection(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	client := s.AddClient(clientID, w)
	if client == nil {
		s.logger.Error("Failed to establish SSE connection", "client_id", clientID)
		http.Error(w, "Failed to establish SSE connection", http.StatusInternalServerError)
		return
	}

	// Send initial keep-alive immediately
	if err := s.sendToClient(client, "keepalive", fmt.Sprintf("Connection established at %s", time.Now().Format(time.RFC3339))); err != nil {
		s.logger.Error("Failed to send initial keep-alive", "client_id", clientID, "error", err)
		s.RemoveClient(clientID)
		return
	}

	// Keep connection alive until client disconnects
	ctx := r.Context()

	select {
	case <-ctx.Done():
		s.logger.Info("SSE client context cancelled", "client_id", clientID)
		s.RemoveClient(clientID)
	case <-client.done:
		s.logger.Info("SSE client connection closed", "client_id", clientID)
	}
}
