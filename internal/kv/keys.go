package kv

// Keys shared by the storefront and admin surfaces. The names match the
// records already written by the browser pages and must not change.
const (
	KeyUsers             = "md_users"
	KeyProducts          = "md_products"
	KeyAdminUsers        = "md_admin_users"
	KeyAdminLoggedIn     = "md_adminLoggedIn"
	KeyCurrentAdmin      = "md_currentAdmin"
	KeyCart              = "md_cart"
	KeyWishlist          = "md_wishlist"
	KeyLoggedIn          = "md_isLoggedIn"
	KeyCurrentUser       = "md_currentUser"
	KeyNotificationLog   = "md_notification_log"
	KeySeenNotifications = "md_seen_notifications"
	KeyPendingCheckout   = "currentOrder"
)
