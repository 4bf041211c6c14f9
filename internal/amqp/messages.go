package amqp

import (
	"encoding/json"
	"time"
)

// BudgetEventMessage announces a budget mutation to interested consumers.
// It carries only identifiers; consumers fetch current state themselves.
// This replaces the ad-hoc broadcast refresh the UI used to rely on with an
// explicit subscription channel.
type BudgetEventMessage struct {
	BudgetID   string    `json:"budgetId"`
	UserID     string    `json:"userId"`
	ChangeType string    `json:"changeType"`
	Timestamp  time.Time `json:"timestamp"`
}

// ReminderMessage is a derived budget or bill reminder published for
// notification delivery.
type ReminderMessage struct {
	SourceID  string    `json:"sourceId"`
	UserID    string    `json:"userId"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBudgetEventMessage(budgetID, userID, changeType string) *BudgetEventMessage {
	return &BudgetEventMessage{
		BudgetID:   budgetID,
		UserID:     userID,
		ChangeType: changeType,
		Timestamp:  time.Now(),
	}
}

func (m *BudgetEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetEventMessageFromJSON(data []byte) (*BudgetEventMessage, error) {
	var msg BudgetEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
