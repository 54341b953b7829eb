package models

// IdeaView is the role-shaped projection of an idea returned to a caller.
type IdeaView struct {
	*Idea
	CanEdit       bool    `json:"canEdit"`
	IsClosed      bool    `json:"isClosed"`
	AverageRating float64 `json:"averageRating"`
}

// ForumView is the role-shaped projection of a forum returned to a caller.
type ForumView struct {
	*Forum
	CanEdit  bool `json:"canEdit"`
	IsClosed bool `json:"isClosed"`
}
