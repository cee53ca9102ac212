// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogMeetingUpload logs a successful CSV upload and analysis.
func (al *AuditLogger) LogMeetingUpload(meetingID, userID, meetingName, trackCondition string, advanced bool, races, horses int, uploadedAt time.Time) {
	al.WithFields(logrus.Fields{
		"meeting_id":      meetingID,
		"user_id":         userID,
		"meeting_name":    meetingName,
		"track_condition": trackCondition,
		"advanced":        advanced,
		"races":           races,
		"horses":          horses,
		"uploaded_at":     uploadedAt.Unix(),
	}).Info("Meeting upload recorded")
}

// LogMeetingDelete logs a meeting deletion.
func (al *AuditLogger) LogMeetingDelete(meetingID, deletedBy string, retention bool) {
	al.WithFields(logrus.Fields{
		"meeting_id": meetingID,
		"deleted_by": deletedBy,
		"retention":  retention,
	}).Info("Meeting deleted")
}

// LogLogin logs an authentication attempt.
func (al *AuditLogger) LogLogin(username string, success bool) {
	al.WithFields(logrus.Fields{
		"username": username,
		"success":  success,
	}).Info("Login attempt")
}
