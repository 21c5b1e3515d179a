package utils

func StringOrDefault(str, defaultValue string) string {
	if str != "" {
		return str
	}

	return defaultValue
}

func IntOrDefault(value, defaultValue int) int {
	if value != 0 {
		return value
	}

	return defaultValue
}
