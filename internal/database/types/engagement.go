package types

import (
	"time"

	"github.com/uptrace/bun"
)

// Chat records a tutor's response to an order. Chats are raw activity
// signal; the reputation pipeline only ever reads them.
type Chat struct {
	bun.BaseModel `bun:"table:chats"`

	ID        string    `bun:",pk"      json:"id"`
	TutorID   string    `bun:",notnull" json:"tutorId"`
	OrderID   string    `bun:",notnull" json:"orderId"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}

// ChatMessage is one message inside a chat. The earliest from-tutor message
// of a chat is the tutor's response instant for latency purposes.
type ChatMessage struct {
	bun.BaseModel `bun:"table:chat_messages"`

	ID        string    `bun:",pk"      json:"id"`
	ChatID    string    `bun:",notnull" json:"chatId"`
	FromTutor bool      `bun:",notnull" json:"fromTutor"`
	Body      string    `bun:",notnull,default:''" json:"body"`
	SentAt    time.Time `bun:",notnull" json:"sentAt"`
}

// Contract records a confirmed engagement between a tutor and an order. Raw
// performance signal, read-only to the core.
type Contract struct {
	bun.BaseModel `bun:"table:contracts"`

	ID         string    `bun:",pk"      json:"id"`
	TutorID    string    `bun:",notnull" json:"tutorId"`
	OrderID    string    `bun:",notnull" json:"orderId"`
	SelectedAt time.Time `bun:",notnull" json:"selectedAt"`
}

// TutorCount is a grouped aggregation row: events per tutor over a window.
type TutorCount struct {
	TutorID string `bun:"tutor_id"`
	Count   int    `bun:"count"`
}

// ResponseDelay is one chat's first-response delta for a tutor, in seconds.
// Negative values are data anomalies and are discarded by the assembler.
type ResponseDelay struct {
	ChatID       string  `bun:"chat_id"`
	DelaySeconds float64 `bun:"delay_seconds"`
}
