package common

const (
	// DateFormat is the wire format for calendar dates.
	DateFormat = "2006-01-02"

	// GdeltDatetimeFormat is the STARTDATETIME/ENDDATETIME wire format.
	GdeltDatetimeFormat = "20060102150405"
)
