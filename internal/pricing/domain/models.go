// Package domain contains the tariff multipliers and result shape for the
// base price calculator.
package domain

// Tariff multipliers applied to the base card price (A).
// These are ENGINE-CONSTANTS shared with the assistant knowledge base.
const (
	MultiplierNosBNos    = 1.3108
	MultiplierVoiceCalls = 1.4616
	MultiplierDataOnly   = 1.16
)

// Result holds the four tariffs derived from a base price.
type Result struct {
	Base           float64 `json:"base"`
	NosBNos        float64 `json:"nosBNos"`
	VoiceCallsOnly float64 `json:"voiceCallsOnly"`
	DataOnly       float64 `json:"dataOnly"`
}

// Formula is a human-readable description of one tariff.
type Formula struct {
	Key        string `json:"key"`
	Expression string `json:"expression"`
}
