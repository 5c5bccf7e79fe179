package main

import "log"

// debugMode enables verbose cache and navigation logging. Set from the
// -debug flag at startup.
var debugMode bool

func debugLog(format string, v ...interface{}) {
	if debugMode {
		log.Printf("Debug: "+format, v...)
	}
}
