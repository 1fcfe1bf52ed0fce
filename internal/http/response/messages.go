package response

// 对外错误消息，保持与管理端前端约定一致
const (
	MsgDatabaseNotConnected = "Database not connected"
	MsgRedisNotConnected    = "Redis not connected"
	MsgInvalidBranding      = "Branding must be a JSON object"
	MsgInvalidBody          = "Invalid JSON body"
	MsgInvalidTTL           = "ttl must be a positive integer"
	MsgBodyTooLarge         = "Request body too large"
	MsgSaveBrandingFailed   = "Failed to save branding"
	MsgResetBrandingFailed  = "Failed to reset branding"
	MsgGetSettingFailed     = "Failed to get setting"
	MsgSaveSettingFailed    = "Failed to save setting"
	MsgSetCacheFailed       = "Failed to set cache"
	MsgDeleteCacheFailed    = "Failed to delete cache"
	MsgClearCacheFailed     = "Failed to clear cache"
	MsgTooManyRequests      = "Too many requests"
	MsgInternal             = "Internal server error"
	MsgNotFound             = "Not found"
)
