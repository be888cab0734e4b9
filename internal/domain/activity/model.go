package activity

// Summary counts what one user has done across the marketplace.
type Summary struct {
	GroupBuysOpened int64 `json:"groupBuysOpened"`
	GroupBuysJoined int64 `json:"groupBuysJoined"`
	RecipesWritten  int64 `json:"recipesWritten"`
	SharesPosted    int64 `json:"sharesPosted"`
	OpenShares      int64 `json:"openShares"`
	Bookmarks       int64 `json:"bookmarks"`
	RecipesLiked    int64 `json:"recipesLiked"`
}
