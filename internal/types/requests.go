package types

// RegisterRequest is the request body for user registration. Password rules
// beyond length are enforced by the strong_password binding rule and again
// in the auth service.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72,strong_password"`
}

// LoginRequest authenticates by email or username.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CreateRecipeRequest is the request body for creating a recipe
type CreateRecipeRequest struct {
	Title        string `json:"title" binding:"required,max=255"`
	Ingredients  string `json:"ingredients" binding:"required"`
	Instructions string `json:"instructions" binding:"required"`
	ImageURL     string `json:"image_url" binding:"omitempty,url,max=512"`
}

// UpdateRecipeRequest is the request body for updating a recipe. Nil fields
// are left unchanged; present fields must still pass validation.
type UpdateRecipeRequest struct {
	Title        *string `json:"title" binding:"omitempty,max=255"`
	Ingredients  *string `json:"ingredients"`
	Instructions *string `json:"instructions"`
	ImageURL     *string `json:"image_url" binding:"omitempty,url,max=512"`
}

// ImportRecipeRequest materializes an external search result into an owned
// recipe.
type ImportRecipeRequest struct {
	ExternalID int64 `json:"external_id" binding:"required,gt=0"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=2,max=20"`
	Email    *string `json:"email" binding:"omitempty,email"`
}
