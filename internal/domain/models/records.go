package models

import "strings"

// ProductionRecord captures a batch of bags filled on one box.
type ProductionRecord struct {
	ID           string    `bson:"_id" json:"id"`
	Date         string    `bson:"date" json:"date"` // YYYY-MM-DD
	Time         string    `bson:"time" json:"time"` // HH:MM
	BoxNumber    BoxNumber `bson:"boxNumber" json:"boxNumber"`
	ProductID    string    `bson:"productId" json:"productId"`
	Quantity     int       `bson:"quantity" json:"quantity"` // bags
	Observations string    `bson:"observations,omitempty" json:"observations,omitempty"`
	Timestamp    int64     `bson:"timestamp" json:"timestamp"`
}

// Validate checks the required fields of a production record.
func (r ProductionRecord) Validate() error {
	if err := validDate("date", r.Date); err != nil {
		return err
	}
	if _, _, err := ParseClock(r.Time); err != nil {
		return invalid("time", "time must be HH:MM")
	}
	if !r.BoxNumber.Valid() {
		return invalid("boxNumber", "box must be 1 or 2")
	}
	if strings.TrimSpace(r.ProductID) == "" {
		return invalid("productId", "product is required")
	}
	if r.Quantity <= 0 {
		return invalid("quantity", "quantity must be a positive integer")
	}
	return nil
}

// PackagingRecord captures the bags packed by one collaborator on a day.
type PackagingRecord struct {
	ID             string `bson:"_id" json:"id"`
	Date           string `bson:"date" json:"date"`
	CollaboratorID string `bson:"collaboratorId" json:"collaboratorId"`
	Quantity       int    `bson:"quantity" json:"quantity"`
	ProductID      string `bson:"productId,omitempty" json:"productId,omitempty"`
	Timestamp      int64  `bson:"timestamp" json:"timestamp"`
}

// Validate checks the required fields of a packaging record.
func (r PackagingRecord) Validate() error {
	if err := validDate("date", r.Date); err != nil {
		return err
	}
	if strings.TrimSpace(r.CollaboratorID) == "" {
		return invalid("collaboratorId", "collaborator is required")
	}
	if r.Quantity <= 0 {
		return invalid("quantity", "quantity must be a positive integer")
	}
	return nil
}

func validDate(field, value string) error {
	if value == "" {
		return invalid(field, "date is required")
	}
	if len(value) != len(DateLayout) {
		return invalid(field, "date must be YYYY-MM-DD")
	}
	if _, err := ParseDate(value, nil); err != nil {
		return invalid(field, "date must be YYYY-MM-DD")
	}
	return nil
}
