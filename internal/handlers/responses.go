package handlers

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// BackupResponse is the response for a manual backup
type BackupResponse struct {
	Path string `json:"path"`
}

// BackupListResponse lists the backup files on disk
type BackupListResponse struct {
	Files []string `json:"files"`
}
