package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"auxl/internal/config"
)

const userAgent = "Auxl-Go/0.1.0"

// Event names a review milestone that may produce a notification.
type Event string

const (
	EventSessionOpened   Event = "session_opened"
	EventSessionSaved    Event = "session_saved"
	EventImportCompleted Event = "import_completed"
	EventExportCompleted Event = "export_completed"
	EventError           Event = "error"
	EventTest            Event = "test"
)

// Payload carries event-specific values keyed by name.
type Payload map[string]any

// Service defines the notification surface exposed to workspace actions.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		session:  cfg.Notifications.Session,
		errors:   cfg.Notifications.Errors,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	session  bool
	errors   bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !n.enabled(event) {
		return nil
	}
	msg, ok := format(event, payload)
	if !ok {
		return fmt.Errorf("unsupported notification event %q", event)
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) enabled(event Event) bool {
	switch event {
	case EventError:
		return n.errors
	case EventTest:
		return true
	default:
		return n.session
	}
}

func format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventSessionOpened:
		return message{
			title: "Auxl - Session Opened",
			body: fmt.Sprintf("📂 Opened %s (%s)",
				baseName(payload.text("path")), reviewedSummary(payload)),
			tags: []string{"auxl", "session", "opened"},
		}, true
	case EventSessionSaved:
		return message{
			title: "Auxl - Session Saved",
			body: fmt.Sprintf("💾 Saved %s (%s)",
				baseName(payload.text("path")), reviewedSummary(payload)),
			tags: []string{"auxl", "session", "saved"},
		}, true
	case EventImportCompleted:
		body := fmt.Sprintf("📥 Imported %d papers from %s",
			payload.number("total"), baseName(payload.text("path")))
		if short := payload.number("shortRows"); short > 0 {
			body = fmt.Sprintf("%s\n%d rows had missing columns", body, short)
		}
		return message{
			title: "Auxl - Import Complete",
			body:  body,
			tags:  []string{"auxl", "import", "completed"},
		}, true
	case EventExportCompleted:
		return message{
			title: "Auxl - Export Complete",
			body: fmt.Sprintf("📤 Exported %d papers to %s",
				payload.number("total"), baseName(payload.text("path"))),
			tags: []string{"auxl", "export", "completed"},
		}, true
	case EventError:
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if label := payload.text("context"); label != "" {
			builder.WriteString(" with ")
			builder.WriteString(label)
		}
		builder.WriteString(": ")
		if text := payload.text("error"); text != "" {
			builder.WriteString(text)
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "Auxl - Error",
			body:     builder.String(),
			tags:     []string{"auxl", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Auxl - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"auxl", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func reviewedSummary(p Payload) string {
	return fmt.Sprintf("%d/%d reviewed", p.number("reviewed"), p.number("total"))
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
