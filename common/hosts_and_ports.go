package common

import (
	"fmt"
	"os"
	"strconv"
)

const defaultServerPort = 8866

const defaultServerHost = "127.0.0.1"

func GetServerHost() string {
	host := os.Getenv("CLICKUPAI_SERVER_HOST")
	if host == "" {
		return defaultServerHost
	}
	return host
}

func GetServerPort() int {
	port := os.Getenv("CLICKUPAI_SERVER_PORT")
	if port == "" {
		return defaultServerPort
	}

	intPort, err := strconv.Atoi(port)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse clickupai server port: %s", port))
	}
	return intPort
}

func GetServerAddr() string {
	return fmt.Sprintf("%s:%d", GetServerHost(), GetServerPort())
}

// IsDevelopment reports whether CLICKUPAI_APP_ENV is "development".
func IsDevelopment() bool {
	return os.Getenv("CLICKUPAI_APP_ENV") == "development"
}
