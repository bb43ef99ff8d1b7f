package schemas

// TickerCreate is the payload for creating a catalog entry
type TickerCreate struct {
	Ticker     string `json:"ticker" binding:"required"`
	Exchange   string `json:"exchange"`
	Name       string `json:"name" binding:"required"`
	FullName   string `json:"full_name" binding:"required"`
	ShortName  string `json:"short_name" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=vn_stock crypto"`
	IndustryID *uint  `json:"industry_id"`
}

// TickerUpdate is a partial update; nil fields are left untouched
type TickerUpdate struct {
	Ticker     *string `json:"ticker"`
	Exchange   *string `json:"exchange"`
	Name       *string `json:"name"`
	FullName   *string `json:"full_name"`
	ShortName  *string `json:"short_name"`
	Type       *string `json:"type" binding:"omitempty,oneof=vn_stock crypto"`
	IndustryID *uint   `json:"industry_id"`
}

// Patch maps the present fields onto column updates
func (u TickerUpdate) Patch() map[string]any {
	patch := map[string]any{}
	if u.Ticker != nil {
		patch["ticker"] = *u.Ticker
	}
	if u.Exchange != nil {
		patch["exchange"] = *u.Exchange
	}
	if u.Name != nil {
		patch["name"] = *u.Name
	}
	if u.FullName != nil {
		patch["full_name"] = *u.FullName
	}
	if u.ShortName != nil {
		patch["short_name"] = *u.ShortName
	}
	if u.Type != nil {
		patch["type"] = *u.Type
	}
	if u.IndustryID != nil {
		patch["industry_id"] = *u.IndustryID
	}
	return patch
}

// IndustryCreate is the payload for creating an industry row; the id comes
// from the upstream provider, not from a local sequence
type IndustryCreate struct {
	ID     uint   `json:"id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	EnName string `json:"en_name" binding:"required"`
}

// IndustryUpdate is a partial update; nil fields are left untouched
type IndustryUpdate struct {
	Name   *string `json:"name"`
	EnName *string `json:"en_name"`
}

// Patch maps the present fields onto column updates
func (u IndustryUpdate) Patch() map[string]any {
	patch := map[string]any{}
	if u.Name != nil {
		patch["name"] = *u.Name
	}
	if u.EnName != nil {
		patch["en_name"] = *u.EnName
	}
	return patch
}
