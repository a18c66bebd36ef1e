package types

// SubscriptionStatus Marketplace 订阅状态，整体缓存.
type SubscriptionStatus struct {
	IsSubscribed bool   `json:"is_subscribed"`
	CustomerID   string `json:"customer_id"`
	ProductCode  string `json:"product_code,omitempty"`
	Message      string `json:"message"`
}

// UsageDimension 计量维度.
type UsageDimension string

const (
	DimensionMediaUpload   UsageDimension = "Media_Upload"
	DimensionMediaDownload UsageDimension = "Media_Download"
	DimensionQRGeneration  UsageDimension = "QR_Code_Generation"
	DimensionUsageHours    UsageDimension = "Usage_Hours"
)

// RegisterEntitlementRequest 注册 Marketplace 授权请求.
type RegisterEntitlementRequest struct {
	RegistrationToken string `binding:"required" json:"registration_token"`
	UserID            string `json:"user_id,omitempty"`
}

// RegisterEntitlementResponse 注册 Marketplace 授权响应.
type RegisterEntitlementResponse struct {
	UserID     string `json:"user_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// ValidateAccessResponse 授权校验响应.
type ValidateAccessResponse struct {
	Valid   bool   `json:"valid"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// EntitlementDenied 授权拒绝响应负载，附带补救信息.
type EntitlementDenied struct {
	Error           string `json:"error"`
	RegistrationURL string `json:"registration_url,omitempty"`
}
