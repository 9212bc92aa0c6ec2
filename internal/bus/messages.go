package bus

import (
	"encoding/json"
	"time"
)

// DataChangedMessage is the cross-process change signal. Origin identifies
// the publishing relay so it can drop its own echoes; the fanout exchange
// delivers to every consumer including the writer.
type DataChangedMessage struct {
	UserID    string    `json:"userId"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDataChangedMessage(userID, origin string) *DataChangedMessage {
	return &DataChangedMessage{
		UserID:    userID,
		Origin:    origin,
		Timestamp: time.Now(),
	}
}

func (m *DataChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DataChangedMessageFromJSON(data []byte) (*DataChangedMessage, error) {
	var msg DataChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
