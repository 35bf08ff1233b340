package capture

// AppCount is one entry in the top-apps breakdown.
type AppCount struct {
	AppName  string `json:"app_name"`
	Captures int    `json:"captures"`
}

// Stats is an ephemeral aggregate snapshot over the capture store.
type Stats struct {
	TotalCaptures int        `json:"total_captures"`
	UniqueApps    int        `json:"unique_apps"`
	TotalChars    int64      `json:"total_characters"`
	TotalWords    int64      `json:"total_words"`
	TopApps       []AppCount `json:"top_apps"`
}
