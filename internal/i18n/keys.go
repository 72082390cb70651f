// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyNotFound      = "common.not_found"
	KeyInternalError = "common.internal_error"
	KeyRateLimited   = "common.rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthPasswordPolicy     = "auth.password_policy"

	// User Management
	KeyUserNotFound      = "user.not_found"
	KeyUserHasProducts   = "user.has_products"
	KeyUserDeleteFailed  = "user.delete_failed"
	KeyUserUpdateFailed  = "user.update_failed"
	KeyUserCreateFailed  = "user.create_failed"
	KeyUserAvatarsFailed = "user.avatars_failed"

	// Products
	KeyProductNotFound     = "product.not_found"
	KeyProductExists       = "product.exists"
	KeyProductIDMismatch   = "product.id_mismatch"
	KeyProductCreateFailed = "product.create_failed"
	KeyProductUpdateFailed = "product.update_failed"
	KeyProductDeleteFailed = "product.delete_failed"
	KeyProductOwnerMissing = "product.owner_missing"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyValidationID      = "validation.invalid_id"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"
)
