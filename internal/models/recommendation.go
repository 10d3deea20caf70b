package models

// MovieRecommendation is one catalog title suggested to a user, with the
// model's stated reason.
type MovieRecommendation struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}
