package engine

// UserRecord is a roster entry as supplied by the caller.
// Birthday is expected as YYYY.MM.DD but is not trusted.
type UserRecord struct {
	Name     string `json:"name" yaml:"name"`
	Birthday string `json:"birthday" yaml:"birthday"`
}

// CongratulationEntry is a user to congratulate and the (weekday) date to do it on.
type CongratulationEntry struct {
	Name string `json:"name" yaml:"name"`

	// CongratulationDate is formatted as YYYY.MM.DD.
	CongratulationDate string `json:"congratulation_date" yaml:"congratulation_date"`
}
