package schemas

// TradingView datafeed UDF shapes. Field names follow the datafeed
// protocol, not this repo's JSON conventions.

// TVExchange is one entry of the config exchanges list
type TVExchange struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Desc  string `json:"desc"`
}

// TVSymbolType is one entry of the config symbol type list
type TVSymbolType struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TVConfig is the static datafeed configuration
type TVConfig struct {
	Exchanges             []TVExchange   `json:"exchanges"`
	SupportedResolutions  []string       `json:"supported_resolutions"`
	SupportsMarks         bool           `json:"supports_marks"`
	SupportsTime          bool           `json:"supports_time"`
	SupportsTimescaleMark bool           `json:"supports_timescale_marks"`
	SymbolsTypes          []TVSymbolType `json:"symbols_types"`
	SupportsSearch        bool           `json:"supports_search"`
	SupportsGroupRequest  bool           `json:"supports_group_request"`
}

// TVSymbolInfo describes one resolvable symbol
type TVSymbolInfo struct {
	Name                 string   `json:"name"`
	FullName             string   `json:"full_name"`
	Ticker               string   `json:"ticker"`
	Description          string   `json:"description"`
	Type                 string   `json:"type"`
	Session              string   `json:"session"`
	Exchange             string   `json:"exchange"`
	ListedExchange       string   `json:"listed_exchange"`
	Timezone             string   `json:"timezone"`
	Format               string   `json:"format"`
	Pricescale           int      `json:"pricescale"`
	Minmov               int      `json:"minmov"`
	Minmove2             int      `json:"minmove2"`
	SupportedResolutions []string `json:"supported_resolutions"`
	HasDaily             bool     `json:"has_daily"`
	HasEmptyBars         bool     `json:"has_empty_bars"`
	HasIntraday          bool     `json:"has_intraday"`
	HasNoVolume          bool     `json:"has_no_volume"`
	HasWeeklyAndMonthly  bool     `json:"has_weekly_and_monthly"`
	IntradayMultipliers  []string `json:"intraday_multipliers"`
}

// TVSearchResult is one symbol search hit
type TVSearchResult struct {
	Symbol      string `json:"symbol"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Exchange    string `json:"exchange"`
	Ticker      string `json:"ticker"`
	Type        string `json:"type"`
}

// TVHistory is the bar history reply relayed from the upstream datafeed.
// Status is "ok", "no_data" or "error"; the bar arrays are parallel.
type TVHistory struct {
	Status   string    `json:"s"`
	ErrMsg   string    `json:"errmsg,omitempty"`
	Time     []int64   `json:"t,omitempty"`
	Close    []float64 `json:"c,omitempty"`
	Open     []float64 `json:"o,omitempty"`
	High     []float64 `json:"h,omitempty"`
	Low      []float64 `json:"l,omitempty"`
	Volume   []float64 `json:"v,omitempty"`
	NextTime *int64    `json:"nextTime,omitempty"`
}
