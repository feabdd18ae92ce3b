// Package domain holds the chat wire types shared by the dispatcher and the
// HTTP layer.
package domain

import (
	"encoding/json"
	"fmt"

	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

const (
	LocaleAR = "ar"
	LocaleEN = "en"
)

// Intent names the branch that answered a chat message.
type Intent string

const (
	IntentProrata    Intent = "prorata"
	IntentVAT        Intent = "vat"
	IntentNavigate   Intent = "navigate-doc"
	IntentDocsUpdate Intent = "docs-update"
	IntentCompletion Intent = "completion"
)

type ChatMessage struct {
	ID        string   `json:"id" validate:"required"`
	Role      Role     `json:"role" validate:"required,oneof=user assistant system"`
	Content   string   `json:"content"`
	Timestamp int64    `json:"timestamp"`
	Payload   *Payload `json:"payload,omitempty" validate:"omitempty"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,dive"`
	Locale   string        `json:"locale,omitempty" validate:"omitempty,oneof=en ar"`
}

type PayloadKind string

const (
	PayloadProrata    PayloadKind = "prorata"
	PayloadNavigate   PayloadKind = "navigate-doc"
	PayloadDocsUpdate PayloadKind = "docs-update"
)

// ProrataData is the copy-ready summary shown on a pro-rata reply card.
type ProrataData struct {
	Period           string   `json:"period"`
	ProDays          string   `json:"proDays"`
	Percent          string   `json:"percent"`
	MonthlyNet       string   `json:"monthlyNet"`
	ProrataNet       string   `json:"prorataNet"`
	InvoiceDate      string   `json:"invoiceDate"`
	CoverageUntil    string   `json:"coverageUntil"`
	Script           string   `json:"script"`
	FullInvoiceGross *float64 `json:"fullInvoiceGross,omitempty"`
}

// Payload is a tagged union keyed by Kind. Only the fields of the active
// variant are encoded.
type Payload struct {
	Kind   PayloadKind `json:"kind" validate:"required,oneof=prorata navigate-doc docs-update"`
	Locale string      `json:"locale" validate:"required,oneof=en ar"`

	Data *ProrataData `json:"data,omitempty"`

	Doc  *docsdomain.DocEntry `json:"doc,omitempty"`
	Note string               `json:"note,omitempty"`

	Added   []docsdomain.DocEntry `json:"added,omitempty"`
	Updated []docsdomain.DocEntry `json:"updated,omitempty"`
}

func NewProrataPayload(locale string, data ProrataData) *Payload {
	return &Payload{Kind: PayloadProrata, Locale: locale, Data: &data}
}

func NewNavigatePayload(locale string, doc docsdomain.DocEntry, note string) *Payload {
	return &Payload{Kind: PayloadNavigate, Locale: locale, Doc: &doc, Note: note}
}

func NewDocsUpdatePayload(locale string, result docsdomain.UpsertResult) *Payload {
	return &Payload{Kind: PayloadDocsUpdate, Locale: locale, Added: result.Added, Updated: result.Updated}
}

func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PayloadProrata:
		data := p.Data
		if data == nil {
			data = &ProrataData{}
		}
		return json.Marshal(struct {
			Kind   PayloadKind  `json:"kind"`
			Locale string       `json:"locale"`
			Data   *ProrataData `json:"data"`
		}{p.Kind, p.Locale, data})
	case PayloadNavigate:
		return json.Marshal(struct {
			Kind   PayloadKind          `json:"kind"`
			Locale string               `json:"locale"`
			Doc    *docsdomain.DocEntry `json:"doc"`
			Note   string               `json:"note,omitempty"`
		}{p.Kind, p.Locale, p.Doc, p.Note})
	case PayloadDocsUpdate:
		added, updated := p.Added, p.Updated
		if added == nil {
			added = []docsdomain.DocEntry{}
		}
		if updated == nil {
			updated = []docsdomain.DocEntry{}
		}
		return json.Marshal(struct {
			Kind    PayloadKind           `json:"kind"`
			Locale  string                `json:"locale"`
			Added   []docsdomain.DocEntry `json:"added"`
			Updated []docsdomain.DocEntry `json:"updated"`
		}{p.Kind, p.Locale, added, updated})
	default:
		return nil, fmt.Errorf("unknown payload kind %q", p.Kind)
	}
}

// Reply is what the dispatcher hands back: either a finished message or a
// request to stream a completion.
type Reply struct {
	Intent  Intent
	Locale  string
	Message *ChatMessage
	// Stream is set for the completion fallback.
	Stream *StreamPlan
}

// StreamPlan carries everything the HTTP layer needs to open a completion
// stream. Prefix is written as the first chunk when non-empty.
type StreamPlan struct {
	Prefix   string
	Messages []PromptMessage
}

type PromptMessage struct {
	Role    Role
	Content string
}
