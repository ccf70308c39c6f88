package guardkit

import (
	"context"
	"errors"
	"time"

	internalaudit "github.com/guardkit/guardkit/internal/audit"
)

const (
	eventLoginAttempted          = "login_attempted"
	eventCredentialsVerified     = "credentials_verified"
	eventLoginFailed             = "login_failed"
	eventLoginSucceeded          = "login_succeeded"
	eventAuthenticationAttempted = "authentication_attempted"
	eventAuthenticationSucceeded = "authentication_succeeded"
	eventAuthenticationFailed    = "authentication_failed"
	eventLoggedOut               = "logged_out"
	eventRememberTokenRotated    = "remember_token_rotated"
)

// AuditErrorCode is the normalized error label carried on failure events.
type AuditErrorCode string

const (
	auditErrInvalidSession     AuditErrorCode = "invalid_session"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrProviderMissing    AuditErrorCode = "token_provider_missing"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *internalaudit.Dispatcher {
	return internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

func (g *Guardian) emitAudit(
	ctx context.Context,
	guardName string,
	eventType string,
	success bool,
	userID string,
	sessionID string,
	tokenSeries string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if g == nil || g.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:   time.Now().UTC(),
		EventType:   eventType,
		GuardName:   guardName,
		UserID:      userID,
		SessionID:   sessionID,
		TokenSeries: tokenSeries,
		Success:     success,
		Metadata:    metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	g.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidAuthSession):
		return auditErrInvalidSession
	case errors.Is(err, ErrInvalidAuthToken):
		return auditErrInvalidToken
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrTokenProviderRequired):
		return auditErrProviderMissing
	default:
		return auditErrInternal
	}
}
