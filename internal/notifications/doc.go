// Package notifications delivers review milestones via ntfy.
//
// The topic comes from config.toml (or AUXL_NTFY_TOPIC) and the service
// degrades to a no-op when none is configured. Session milestones and error
// alerts can be switched off independently. Callers depend only on the
// Service interface and treat delivery failures as warnings.
package notifications
