package jsx

// Version and BuildDate are stamped by the release build.
var (
	Version   = "0.3.0"
	BuildDate = "unknown"
)
