package logger

import (
	"fmt"
	"os"
)

// Debug output is gated by GLUA_DEBUG.
var enabled = os.Getenv("GLUA_DEBUG") != ""

func Enabled() bool {
	return enabled
}

func I(format string, a ...any) {
	if enabled {
		fmt.Printf("[INFO] "+format+"\n", a...)
	}
}

func W(format string, a ...any) {
	if enabled {
		fmt.Printf("[WARN] "+format+"\n", a...)
	}
}

func E(format string, a ...any) {
	if enabled {
		fmt.Printf("[ERROR] "+format+"\n", a...)
	}
}
