package constant

// Display sentinels shown while no media is loaded.
const (
	ElapsedUnset = "00:00:00"
	TotalUnset   = "--/--/--"
)

// Notification texts shown on the transient notification surface.
const (
	NoticeSelectVideo = "Please select a video file."
	NoticeDropVideo   = "Please drop a video file."
	NoticeSeekFormat  = "%s By %d Sec"
	NoticeSpeedFormat = "Speed: %.1fx"
	NoticeVolFormat   = "Volume: %d%%"
	AlertInvalidKey   = "Invalid Key Pressed"
)
