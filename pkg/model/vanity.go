package model

import "time"

// Outcomes of one generation request.
const (
	OutcomeGenerated          = "generated"
	OutcomeRankingUnavailable = "ranking_unavailable"
	OutcomeNoCandidates       = "no_candidates"
)

// VanityRecord is the stored result for one caller, keyed by phone.
type VanityRecord struct {
	ID                    string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Phone                 string    `json:"phone" bson:"phone" validate:"required,e164"`
	Digits                string    `json:"digits" bson:"digits" validate:"required,len=10,numeric"`
	CandidateCount        int       `json:"candidate_count" bson:"candidate_count" validate:"min=0"`
	Selected              []string  `json:"selected" bson:"selected" validate:"max=5,dive,required"`
	Phonetics             []string  `json:"phonetics" bson:"phonetics" validate:"max=5"`
	Outcome               string    `json:"outcome" bson:"outcome" validate:"required,oneof=generated ranking_unavailable no_candidates"`
	RankingStatus         string    `json:"ranking_status" bson:"ranking_status" validate:"required,oneof=selected no_selection unavailable"`
	Oracle                string    `json:"oracle,omitempty" bson:"oracle,omitempty"`
	Layout                string    `json:"layout" bson:"layout" validate:"required,oneof=full area_code"`
	DictionaryFingerprint string    `json:"dictionary_fingerprint" bson:"dictionary_fingerprint" validate:"omitempty,hexadecimal"`
	GeneratedAt           time.Time `json:"generated_at" bson:"generated_at"`
}

// VanityResult is returned by a generation request. Candidates holds the
// full engine output; the record keeps only the selection.
type VanityResult struct {
	VanityRecord
	Candidates []string `json:"candidates"`
	Persisted  bool     `json:"persisted"`
}

type GenerateRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,vanity_phone"`
}

type CandidatesResponse struct {
	Digits       string   `json:"digits"`
	Layout       string   `json:"layout"`
	Candidates   []string `json:"candidates"`
	Count        int      `json:"count"`
	Combinations uint64   `json:"combinations"`
	Matches      uint64   `json:"matches"`
	DurationMS   int64    `json:"duration_ms"`
	Cached       bool     `json:"cached"`
}

// VanityGeneratedEvent is published after every successful generation.
type VanityGeneratedEvent struct {
	Phone          string    `json:"phone"`
	Digits         string    `json:"digits"`
	Outcome        string    `json:"outcome"`
	Selected       []string  `json:"selected"`
	CandidateCount int       `json:"candidate_count"`
	CorrelationID  string    `json:"correlation_id,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
}
