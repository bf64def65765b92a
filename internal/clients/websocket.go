package clients

import (
	"context"
	"fmt"

	ws "schuldenfrei/internal/transport/websocket"
)

// Notifier pushes export lifecycle events to whoever started the export.
type Notifier interface {
	NotifyExportProgress(ctx context.Context, owner, exportID string, progress float64, stage string) error
	NotifyExportComplete(ctx context.Context, owner, exportID, url, filename string) error
	NotifyExportFailed(ctx context.Context, owner, exportID, errMsg string) error
}

type WebSocketClient struct {
	hub *ws.Hub
}

func NewWebSocketClient(hub *ws.Hub) *WebSocketClient {
	return &WebSocketClient{hub: hub}
}

func (c *WebSocketClient) NotifyExportProgress(ctx context.Context, owner, exportID string, progress float64, stage string) error {
	if c.hub == nil {
		return nil
	}

	data := map[string]interface{}{
		"id":       exportID,
		"progress": progress,
	}
	if stage != "" {
		data["stage"] = stage
	}

	c.hub.Broadcast(owner, &ws.Message{
		Type:    "export_progress",
		Channel: fmt.Sprintf("export_progress#%s", owner),
		Data:    data,
	})
	return nil
}

func (c *WebSocketClient) NotifyExportComplete(ctx context.Context, owner, exportID, url, filename string) error {
	if c.hub == nil {
		return nil
	}

	c.hub.Broadcast(owner, &ws.Message{
		Type:    "export_complete",
		Channel: fmt.Sprintf("export_complete#%s", owner),
		Data: map[string]interface{}{
			"id":       exportID,
			"url":      url,
			"filename": filename,
		},
	})
	return nil
}

func (c *WebSocketClient) NotifyExportFailed(ctx context.Context, owner, exportID, errMsg string) error {
	if c.hub == nil {
		return nil
	}

	c.hub.Broadcast(owner, &ws.Message{
		Type:    "export_failed",
		Channel: fmt.Sprintf("export_failed#%s", owner),
		Data: map[string]interface{}{
			"id":      exportID,
			"message": errMsg,
		},
	})
	return nil
}
