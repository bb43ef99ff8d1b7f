package schemas

// OIDCUser is the identity shape expected from the provider's userinfo
// endpoint. Sub and Email are mandatory; everything else is best-effort.
type OIDCUser struct {
	Sub               string `json:"sub"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	Username          string `json:"username"`
	PreferredUsername string `json:"preferred_username"`
	EmailVerified     bool   `json:"email_verified"`
}

// Valid reports whether the claims satisfy the expected identity shape
func (u OIDCUser) Valid() bool {
	return u.Sub != "" && u.Email != ""
}

// Token is the locally issued bearer token reply
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserUpdate is a partial update; nil fields are left untouched
type UserUpdate struct {
	FullName *string `json:"full_name"`
	IsActive *bool   `json:"is_active"`
}

// Patch maps the present fields onto column updates
func (u UserUpdate) Patch() map[string]any {
	patch := map[string]any{}
	if u.FullName != nil {
		patch["full_name"] = *u.FullName
	}
	if u.IsActive != nil {
		patch["is_active"] = *u.IsActive
	}
	return patch
}

// ItemCreate is the payload for creating an item; the owner comes from the
// authenticated user, never from the body
type ItemCreate struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// ItemUpdate is a partial update; nil fields are left untouched
type ItemUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Patch maps the present fields onto column updates
func (u ItemUpdate) Patch() map[string]any {
	patch := map[string]any{}
	if u.Title != nil {
		patch["title"] = *u.Title
	}
	if u.Description != nil {
		patch["description"] = *u.Description
	}
	return patch
}
