package types

// DailyStat aggregates visits for one calendar day.
type DailyStat struct {
	Date string `json:"date"`
	Pv   int    `json:"pv"`
	Uv   int    `json:"uv"`
	Uip  int    `json:"uip"`
}

// CountStat is a labelled counter with its share of the total.
type CountStat struct {
	Label string  `json:"label"`
	Count int     `json:"cnt"`
	Ratio float64 `json:"ratio"`
}

// LinkStats is the analytics payload for a link or a group.
type LinkStats struct {
	Pv           int         `json:"pv"`
	Uv           int         `json:"uv"`
	Uip          int         `json:"uip"`
	Daily        []DailyStat `json:"daily"`
	HourStats    []int       `json:"hourStats"`
	WeekdayStats []int       `json:"weekdayStats"`
	TopIPStats   []CountStat `json:"topIpStats"`
	BrowserStats []CountStat `json:"browserStats"`
	OSStats      []CountStat `json:"osStats"`
	DeviceStats  []CountStat `json:"deviceStats"`
	UvTypeStats  []CountStat `json:"uvTypeStats"`
}
