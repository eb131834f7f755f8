package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	LocalsKey        = "USER_CONTEXT"
	KeyUserID        = "user_id"
	KeyPublicID      = "public_id"
	KeyFirstName     = "first_name"
	KeyPlan          = "user_plan"
	KeyFromProtected = "from_protected"
)
