package models

import "time"

// ResultChangeLog is an immutable field-level change entry for a result.
type ResultChangeLog struct {
	ID            string    `db:"id" json:"id"`
	ResultID      string    `db:"result_id" json:"result_id"`
	ChangedBy     string    `db:"changed_by" json:"changed_by"`
	FieldName     string    `db:"field_name" json:"field_name"`
	PreviousValue string    `db:"previous_value" json:"previous_value"`
	NewValue      string    `db:"new_value" json:"new_value"`
	ChangedAt     time.Time `db:"changed_at" json:"changed_at"`
}
