package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     func(name string, args ...string) error
}

// NewNotifier creates a new notifier
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Args builds the notify-send arguments for a notification
func Args(notification Notification) []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout is in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "doist")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}
	return n.run("notify-send", Args(notification)...)
}

// SendOrphanWarning tells the user a moved task left its original behind
func (n *Notifier) SendOrphanWarning(content string) error {
	return n.Send(Notification{
		Title:   "Task moved, original not removed",
		Body:    fmt.Sprintf("%q exists twice. Run `doist orphans --cleanup` to retry.", content),
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
		Icon:    "dialog-warning-symbolic",
	})
}
