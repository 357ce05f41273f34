package config

import "os"

// lookupPort reads the PORT variable set by most hosting platforms.
func lookupPort() (string, bool) {
	port, ok := os.LookupEnv("PORT")
	return port, ok && port != ""
}
