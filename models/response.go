package models

import "time"

// ObjectRecord describes one stored file of the calling user. Url, size
// and lastModified are null when unknown.
type ObjectRecord struct {
	Key          string     `json:"key"`
	FileName     string     `json:"fileName"`
	URL          *string    `json:"url"`
	Size         *int64     `json:"size"`
	LastModified *time.Time `json:"lastModified"`
}

// ListResponse is the body of a successful listing
type ListResponse struct {
	Items []ObjectRecord `json:"items"`
}

// UploadRequest is the body of an upload. FileContent is a base64 data URL.
type UploadRequest struct {
	FileName       string `json:"fileName"`
	FileContent    string `json:"fileContent"`
	FileType       string `json:"fileType,omitempty"`
	DeploymentType string `json:"deploymentType,omitempty"`
}

// UploadResponse is the body of a successful upload
type UploadResponse struct {
	Success        bool   `json:"success"`
	Key            string `json:"key"`
	DeploymentType string `json:"deploymentType,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
