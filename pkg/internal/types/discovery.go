package types

// OperationInfo 单个 API 操作的描述.
type OperationInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// APIDescription 机器可读的 API 目录.
type APIDescription struct {
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	Operations []OperationInfo `json:"operations"`
}
