package schemas

import "encoding/json"

// ChartListItem is a chart row as returned by list views; content is
// deliberately absent so payload size does not depend on chart size.
type ChartListItem struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Timestamp  int64  `json:"timestamp"` // unix seconds of lastModified
	Symbol     string `json:"symbol"`
	Resolution string `json:"resolution"`
}

// ChartDetail is a single chart including its content blob
type ChartDetail struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	Timestamp  int64           `json:"timestamp"`
	Symbol     string          `json:"symbol"`
	Resolution string          `json:"resolution"`
	Content    json.RawMessage `json:"content"`
}

// ChartCreatedResponse is the chart-storage create reply: the envelope
// status plus the freshly assigned id at the top level.
type ChartCreatedResponse struct {
	Status Status `json:"status"`
	ID     uint   `json:"id"`
}

// StatusResponse carries only the envelope status (update/delete replies)
type StatusResponse struct {
	Status Status `json:"status"`
}

// TemplateDetail is a named template with its content blob
type TemplateDetail struct {
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
}
