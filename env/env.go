package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var vars map[string]string

// Load reads the .env file if one exists. Missing files are fine; real
// deployments pass everything through the process environment.
func Load() {
	for _, path := range []string{".env", "../.env"} {
		if loaded, err := godotenv.Read(path); err == nil {
			vars = loaded
			return
		}
	}
}

// Get prefers the process environment over the .env file, so a
// deployment can override a stale file key without deleting it.
func Get(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if val, ok := vars[key]; ok {
		return val
	}
	return def
}

func GetInt(key string, def int) int {
	val, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return def
	}
	return val
}
