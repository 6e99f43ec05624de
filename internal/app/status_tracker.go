package app

import (
	"fmt"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// StatusTracker detects status changes per homework name and formats the
// notification text.
type StatusTracker struct {
	statuses homework.StatusRepository
	logger   *logrus.Entry
}

func NewStatusTracker(statuses homework.StatusRepository, logger *logrus.Entry) *StatusTracker {
	return &StatusTracker{statuses: statuses, logger: logger}
}

// ParseStatus validates one homework record. changed is false when the
// status equals the last one seen for the same homework; message is empty
// then. The seen-status table is only updated for valid records.
func (t *StatusTracker) ParseStatus(record any) (message string, changed bool, err error) {
	hw, ok := record.(map[string]any)
	if !ok {
		t.logger.WithField("type", fmt.Sprintf("%T", record)).Error("Homework record is not an object")
		return "", false, homework.NewRecordMalformed("")
	}

	name, ok := hw[homework.FieldName].(string)
	if !ok {
		t.logger.WithField("field", homework.FieldName).Error("Homework record misses a field")
		return "", false, homework.NewRecordMalformed(homework.FieldName)
	}
	rawStatus, ok := hw[homework.FieldStatus].(string)
	if !ok {
		t.logger.WithField("field", homework.FieldStatus).Error("Homework record misses a field")
		return "", false, homework.NewRecordMalformed(homework.FieldStatus)
	}

	status := homework.Status(rawStatus)
	verdict, ok := homework.Verdict(status)
	if !ok {
		t.logger.WithFields(logrus.Fields{"homework": name, "status": rawStatus}).Error("Undocumented homework status")
		return "", false, homework.NewUnrecognizedStatus(rawStatus)
	}

	if prev, seen := t.statuses.Get(name); seen && prev == status {
		t.logger.WithFields(logrus.Fields{"homework": name, "status": rawStatus}).Debug("Status not changed")
		return "", false, nil
	}

	t.statuses.Set(name, status)
	return fmt.Sprintf(`Изменился статус проверки работы "%s". %s`, name, verdict), true, nil
}
