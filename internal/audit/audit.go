package audit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// OperationType represents the type of operation performed
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
	OperationRead   OperationType = "READ"
	OperationExport OperationType = "EXPORT"
)

// ResourceType represents the type of resource being accessed
type ResourceType string

const (
	ResourceSkinLog  ResourceType = "skin_log"
	ResourceProduct  ResourceType = "product"
	ResourceAnalysis ResourceType = "skin_analysis"
	ResourceReport   ResourceType = "report"
	ResourceUser     ResourceType = "user"
)

// Entry represents an audit log entry
type Entry struct {
	UserID         string                 `json:"user_id"`
	OperationType  OperationType          `json:"operation_type"`
	ResourceType   ResourceType           `json:"resource_type"`
	ResourceID     string                 `json:"resource_id"`
	Timestamp      time.Time              `json:"timestamp"`
	IPAddress      string                 `json:"ip_address,omitempty"`
	UserAgent      string                 `json:"user_agent,omitempty"`
	AdditionalData map[string]interface{} `json:"additional_data,omitempty"`
}

// Store persists audit entries
type Store interface {
	InsertAuditEntry(ctx context.Context, entry Entry) error
	ListAuditEntries(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// Logger writes every entry to the structured log and to the store
type Logger struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewLogger creates a new audit logger
func NewLogger(store Store, logger *zap.Logger) *Logger {
	return &Logger{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Log creates an audit log entry
func (l *Logger) Log(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}

	l.logger.Info("audit log entry",
		zap.String("user_id", entry.UserID),
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
		zap.String("ip_address", entry.IPAddress),
	)

	if err := l.store.InsertAuditEntry(ctx, entry); err != nil {
		l.logger.Error("failed to write audit log",
			zap.Error(err),
			zap.String("user_id", entry.UserID),
			zap.String("operation", string(entry.OperationType)),
			zap.String("resource_type", string(entry.ResourceType)),
		)
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	return nil
}

// Record logs an operation and only reports a store failure to the
// structured log. Business operations must not fail because of auditing.
func (l *Logger) Record(ctx context.Context, userID string, op OperationType, resource ResourceType, resourceID string) {
	if l == nil {
		return
	}
	entry := Entry{
		UserID:        userID,
		OperationType: op,
		ResourceType:  resource,
		ResourceID:    resourceID,
	}
	if meta, ok := RequestMetaFromContext(ctx); ok {
		entry.IPAddress = meta.IPAddress
		entry.UserAgent = meta.UserAgent
	}
	_ = l.Log(ctx, entry)
}

// History returns the newest audit entries of a user
func (l *Logger) History(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	entries, err := l.store.ListAuditEntries(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return entries, nil
}

type requestMetaKey struct{}

// RequestMeta carries the caller's network identity into services
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta attaches request metadata to ctx
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts metadata set by WithRequestMeta
func RequestMetaFromContext(ctx context.Context) (RequestMeta, bool) {
	meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta, ok
}
