package model

// ClassSchedule is the group-fitness schedule starting at a given date.
type ClassSchedule struct {
	StartDate string     `json:"startDate"`
	Days      []ClassDay `json:"days"`
}

// ClassDay groups the sessions of one calendar date.
type ClassDay struct {
	Date     string         `json:"date"`
	Label    string         `json:"label"`
	Sessions []ClassSession `json:"sessions"`
}

// ClassSession is a single class. Start and end times are local
// time-of-day strings in TimeZone, passed through from the widget.
type ClassSession struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Instructor     string  `json:"instructor"`
	StartTimeLocal *string `json:"startTimeLocal"`
	EndTimeLocal   *string `json:"endTimeLocal"`
	TimeZone       string  `json:"timeZone"`
	Location       string  `json:"location"`
	Description    string  `json:"description"`
	IsCancelled    bool    `json:"isCancelled"`
}
